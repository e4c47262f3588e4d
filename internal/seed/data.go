package seed

import "auvora-crm/internal/domain/tenants"

type profile struct {
	MembershipTypes []string
	Rates           []float64
	Classes         []string
	StaffRoles      []string
	Goals           []goalSeed
	Promotion       string
	PromoCode       string
}

type goalSeed struct {
	Title  string
	Target float64
	Unit   string
}

var memberNames = []string{
	"Ava Thompson", "Liam Carter", "Maya Patel", "Noah Kim", "Zoe Martinez",
	"Ethan Brooks", "Chloe Nguyen", "Lucas Rivera", "Isla Bennett", "Mateo Silva",
	"Nora Adams", "Owen Hughes",
}

var staffNames = []string{"Jordan Lee", "Sam Ortiz", "Riley Chen", "Morgan Price"}

var staffColors = []string{"#4f46e5", "#059669", "#d97706", "#db2777"}

var profiles = map[string]profile{
	tenants.IndustryFitness: {
		MembershipTypes: []string{"Unlimited", "10-Class Pack", "Off-Peak"},
		Rates:           []float64{149, 99, 79},
		Classes:         []string{"Spin", "HIIT", "Strength Lab", "Mobility"},
		StaffRoles:      []string{"Head Coach", "Coach", "Front Desk"},
		Goals: []goalSeed{
			{"Lose weight", 10, "lb"},
			{"Attend classes", 20, "classes"},
			{"Deadlift", 225, "lb"},
		},
		Promotion: "Bring a Friend",
		PromoCode: "FRIEND20",
	},
	tenants.IndustryEducation: {
		MembershipTypes: []string{"Full Term", "Monthly", "Drop-in"},
		Rates:           []float64{320, 180, 45},
		Classes:         []string{"Algebra Lab", "Essay Writing", "SAT Prep", "Coding Club"},
		StaffRoles:      []string{"Lead Tutor", "Tutor", "Coordinator"},
		Goals: []goalSeed{
			{"Complete practice tests", 8, "tests"},
			{"Reading hours", 40, "hours"},
		},
		Promotion: "Back to School",
		PromoCode: "SCHOOL15",
	},
	tenants.IndustryWellness: {
		MembershipTypes: []string{"Monthly Unlimited", "5-Visit Pass", "Intro Month"},
		Rates:           []float64{129, 85, 49},
		Classes:         []string{"Vinyasa Flow", "Restorative Yoga", "Breathwork", "Meditation"},
		StaffRoles:      []string{"Lead Instructor", "Instructor", "Front Desk"},
		Goals: []goalSeed{
			{"Practice days", 30, "days"},
			{"Meditation minutes", 600, "min"},
		},
		Promotion: "New Moon",
		PromoCode: "NEWMOON10",
	},
	tenants.IndustryBeauty: {
		MembershipTypes: []string{"VIP Monthly", "Glow Club", "Pay As You Go"},
		Rates:           []float64{99, 59, 0},
		Classes:         []string{"Brow Workshop", "Skincare 101", "Makeup Masterclass"},
		StaffRoles:      []string{"Senior Stylist", "Stylist", "Receptionist"},
		Goals: []goalSeed{
			{"Facials booked", 6, "visits"},
			{"Loyalty points", 500, "points"},
		},
		Promotion: "Glow Up",
		PromoCode: "GLOW25",
	},
}

func profileFor(industry string) profile {
	if p, ok := profiles[industry]; ok {
		return p
	}
	return profiles[tenants.IndustryFitness]
}

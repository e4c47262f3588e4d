package leads

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	created := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	list := []Lead{
		{Name: "Ana Ruiz", Email: "ana@example.com", Phone: "555-0100", Business: `Flow "Yoga", LLC`, Industry: "wellness", Status: StatusNew, Source: SourceDemoRequest, CreatedAt: created},
		{Name: "Ben Ode", Email: "ben@example.com", Business: "Iron Gym", Industry: "fitness", Status: StatusContacted, Source: SourceManual, CreatedAt: created},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, list))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Name","Email","Phone","Business","Industry","Status","Source","Created"`, lines[0])
	assert.Equal(t, `"Ana Ruiz","ana@example.com","555-0100","Flow ""Yoga"", LLC","wellness","new","demo_request","2026-02-14"`, lines[1])
	assert.Equal(t, `"Ben Ode","ben@example.com","","Iron Gym","fitness","contacted","manual","2026-02-14"`, lines[2])

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, `Flow "Yoga", LLC`, records[1][3])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, `"Name","Email","Phone","Business","Industry","Status","Source","Created"`+"\n", buf.String())
}

func TestLeadValidate(t *testing.T) {
	assert.NoError(t, Lead{Status: StatusNew, Source: SourceWebsite}.Validate())
	assert.ErrorIs(t, Lead{Status: "hot", Source: SourceWebsite}.Validate(), ErrInvalidStatus)
	assert.ErrorIs(t, Lead{Status: StatusLost, Source: "cold_call"}.Validate(), ErrInvalidSource)
}

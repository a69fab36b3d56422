package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-20")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2025, Month: time.June, Day: 20}, d)
	assert.Equal(t, "2025-06-20", d.String())

	_, err = ParseDate("20/06/2025")
	assert.Error(t, err)
}

func TestDate_Compare(t *testing.T) {
	a := MustParseDate("2025-06-20")
	b := MustParseDate("2025-06-21")
	c := MustParseDate("2026-01-01")

	assert.True(t, a.Before(b))
	assert.True(t, c.After(b))
	assert.Equal(t, 0, a.Compare(MustParseDate("2025-06-20")))
	assert.Equal(t, -1, b.Compare(c))
}

func TestDate_AddDaysCrossesMonthAndYear(t *testing.T) {
	assert.Equal(t, MustParseDate("2025-07-01"), MustParseDate("2025-06-30").AddDays(1))
	assert.Equal(t, MustParseDate("2026-01-02"), MustParseDate("2025-12-31").AddDays(2))
	assert.Equal(t, MustParseDate("2024-02-29"), MustParseDate("2024-03-01").AddDays(-1))
}

func TestDate_Monday(t *testing.T) {
	// 2025-06-20 is a Friday.
	assert.Equal(t, MustParseDate("2025-06-16"), MustParseDate("2025-06-20").Monday())
	assert.Equal(t, MustParseDate("2025-06-16"), MustParseDate("2025-06-16").Monday())
	// Sunday belongs to the week that started six days earlier.
	assert.Equal(t, MustParseDate("2025-06-16"), MustParseDate("2025-06-22").Monday())
}

func TestLocalDateOf_DependsOnLocation(t *testing.T) {
	instant := time.Date(2025, 6, 19, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)
	lima := time.FixedZone("PET", -5*60*60)

	assert.Equal(t, MustParseDate("2025-06-19"), LocalDateOf(instant, time.UTC))
	assert.Equal(t, MustParseDate("2025-06-20"), LocalDateOf(instant, tokyo))
	assert.Equal(t, MustParseDate("2025-06-19"), LocalDateOf(instant, lima))
}

func TestDate_JSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		D Date `json:"d"`
	}{MustParseDate("2025-06-20")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2025-06-20"}`, string(raw))

	var out struct {
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2025-01-05"}`), &out))
	assert.Equal(t, MustParseDate("2025-01-05"), out.D)

	assert.Error(t, json.Unmarshal([]byte(`{"d":"yesterday"}`), &out))
}

func TestDate_BSONStoresString(t *testing.T) {
	doc, err := bson.Marshal(bson.M{"date": MustParseDate("2025-06-20")})
	require.NoError(t, err)

	var raw bson.M
	require.NoError(t, bson.Unmarshal(doc, &raw))
	assert.Equal(t, "2025-06-20", raw["date"])

	var decoded struct {
		Date Date `bson:"date"`
	}
	require.NoError(t, bson.Unmarshal(doc, &decoded))
	assert.Equal(t, MustParseDate("2025-06-20"), decoded.Date)
}

func TestWeekWindow(t *testing.T) {
	days := WeekWindow(MustParseDate("2025-06-18"))
	require.Len(t, days, WeekLength)
	assert.Equal(t, MustParseDate("2025-06-16"), days[0])
	assert.Equal(t, MustParseDate("2025-06-22"), days[6])
}

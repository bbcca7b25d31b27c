package csvvalidate

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/creatorstack/strategist/internal/errorkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Basic(t *testing.T) {
	csv := "Title,Views,Likes\nHow to Cook Rice,1000,50\nAnother Video,2000,80\n"
	res, err := Validate([]byte(csv), DefaultLimits())
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "How to Cook Rice", res.Rows[0].Title)
	require.NotNil(t, res.Rows[0].Views)
	assert.Equal(t, int64(1000), *res.Rows[0].Views)
}

func TestValidate_MissingTitleColumn(t *testing.T) {
	csv := "Views,Likes\n1000,50\n"
	_, err := Validate([]byte(csv), DefaultLimits())
	require.Error(t, err)
	assert.Equal(t, errorkit.InvalidInput, errorkit.KindOf(err))
}

func TestValidate_HostileCell(t *testing.T) {
	csv := "Title,Views\n=HYPERLINK(\"evil\"),1000\n"
	_, err := Validate([]byte(csv), DefaultLimits())
	require.Error(t, err)
	assert.Equal(t, errorkit.HostileInput, errorkit.KindOf(err))
}

func TestValidate_DedupByVideoID(t *testing.T) {
	csv := "video_id,Title\nabc,First\nabc,Second\n"
	res, err := Validate([]byte(csv), DefaultLimits())
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "First", res.Rows[0].Title)
	assert.NotEmpty(t, res.Warnings)
}

func TestValidate_EmptyTitleDropped(t *testing.T) {
	csv := "Title,Views\n,1000\nReal Title,2000\n"
	res, err := Validate([]byte(csv), DefaultLimits())
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Real Title", res.Rows[0].Title)
}

func TestValidate_NegativeNumberNotHostile(t *testing.T) {
	csv := "Title,Views\nGrowth Dropped -500 Views,1000\n"
	res, err := Validate([]byte(csv), DefaultLimits())
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
}

func TestValidate_TooManyBytes(t *testing.T) {
	_, err := Validate([]byte("Title\nx\n"), Limits{MaxBytes: 4, MaxRows: 10, MaxCellRuns: 100})
	require.Error(t, err)
	assert.Equal(t, errorkit.TooLarge, errorkit.KindOf(err))
}

func TestValidate_NoRows(t *testing.T) {
	_, err := Validate([]byte("Title\n"), DefaultLimits())
	require.Error(t, err)
	assert.Equal(t, errorkit.InvalidInput, errorkit.KindOf(err))
}

func TestValidate_XLSXWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Title", "Views"},
		{"How to Cook Rice", 1000},
		{"Another Video", 2000},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	res, err := Validate(buf.Bytes(), DefaultLimits())
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "How to Cook Rice", res.Rows[0].Title)
	require.NotNil(t, res.Rows[0].Views)
	assert.Equal(t, int64(1000), *res.Rows[0].Views)
}

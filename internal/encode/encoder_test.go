package encode

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srcbundle/internal/models"
)

func record(path, content string) models.FileRecord {
	return models.NewFileRecord(path, content, nil)
}

func TestEncodeTextDefaults(t *testing.T) {
	doc := &models.Document{
		Format: models.FormatText,
		Records: []models.FileRecord{
			record("a.py", "x = 1\n"),
			record("sub/b.py", "y = 2"),
		},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)

	want := "--- a.py ---\n" +
		"x = 1\n" +
		"\n--- end a.py ---\n" +
		"--- sub/b.py ---\n" +
		"y = 2\n" +
		"--- end sub/b.py ---\n"
	assert.Equal(t, want, result.Output)
	assert.Equal(t, 2, result.Stats.TotalFiles)
	assert.Equal(t, 2, result.Stats.TotalDiscovered)
	assert.False(t, result.Stats.TokenLimitReached)
}

func TestEncodeTextCustomTemplates(t *testing.T) {
	doc := &models.Document{
		Format:         models.FormatText,
		HeaderTemplate: ">> {{FILENAME}} ({{SIZE}})\n",
		FooterTemplate: "\n<< {{FILENAME}}\n",
		Records:        []models.FileRecord{record("a.py", "x = 1")},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, ">> a.py (5.00 B)\nx = 1\n<< a.py\n", result.Output)
}

func TestEncodeMarkdownDefaults(t *testing.T) {
	doc := &models.Document{
		Format:  models.FormatMarkdown,
		Records: []models.FileRecord{record("a.py", "x = 1\n")},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, "## a.py\n\n```py\nx = 1\n```\n\n", result.Output)
}

func TestEncodeMarkdownAddsMissingNewlineBeforeFence(t *testing.T) {
	doc := &models.Document{
		Format:  models.FormatMarkdown,
		Records: []models.FileRecord{record("a.py", "x = 1")},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, "## a.py\n\n```py\nx = 1\n```\n\n", result.Output)
}

func TestEncodeXML(t *testing.T) {
	doc := &models.Document{
		Format:  models.FormatXML,
		Records: []models.FileRecord{record("a.py", "if a < b && c > d:\n  pass")},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)

	want := "<repository>\n" +
		"<file path=\"a.py\">\n" +
		"if a &lt; b &amp;&amp; c &gt; d:\n  pass\n" +
		"</file>\n" +
		"</repository>\n"
	assert.Equal(t, want, result.Output)
}

func TestEncodeXMLEscapesPathAttribute(t *testing.T) {
	doc := &models.Document{
		Format:  models.FormatXML,
		Records: []models.FileRecord{record(`odd "name".py`, "x")},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)
	assert.Contains(t, result.Output, `<file path="odd &quot;name&quot;.py">`)
}

func TestEncodeStructured(t *testing.T) {
	fixed := func(string) (int, bool) { return 3, false }
	doc := &models.Document{
		Format: models.FormatStructured,
		Records: []models.FileRecord{
			models.NewFileRecord("a.py", "x = 1\n", fixed),
			models.NewFileRecord("sub/b.py", "y = 2", fixed),
		},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Output, "\n"))

	var decoded []struct {
		Path          string `json:"path"`
		Content       string `json:"content"`
		Size          int64  `json:"size"`
		LineCount     int    `json:"line_count"`
		TokenEstimate int    `json:"token_estimate"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Output), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "a.py", decoded[0].Path)
	assert.Equal(t, "x = 1\n", decoded[0].Content)
	assert.Equal(t, int64(6), decoded[0].Size)
	assert.Equal(t, 1, decoded[0].LineCount)
	assert.Equal(t, 3, decoded[0].TokenEstimate)
	assert.Equal(t, "sub/b.py", decoded[1].Path)
}

func TestEncodeStructuredLines(t *testing.T) {
	doc := &models.Document{
		Format: models.FormatStructuredLines,
		Records: []models.FileRecord{
			record("a.py", "x = 1\n"),
			record("b.py", "y = 2\n"),
		},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(result.Output, "\n"), "\n")
	require.Len(t, lines, 2)
	for i, line := range lines {
		var obj map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &obj), "line %d", i)
	}
}

func TestEncodeGlobalTemplatesRenderedOnce(t *testing.T) {
	doc := &models.Document{
		Format:               models.FormatText,
		GlobalHeaderTemplate: "Bundle of {{FILE_COUNT}} files ({{TOTAL_SIZE}})\n",
		GlobalFooterTemplate: "Total lines: {{TOTAL_LINES}}\n",
		Records: []models.FileRecord{
			record("a.py", "x = 1\n"),
			record("b.py", "y = 2\n"),
		},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Output, "Bundle of 2 files (12.00 B)\n"))
	assert.Equal(t, 1, strings.Count(result.Output, "Bundle of"))
	assert.Equal(t, 1, strings.Count(result.Output, "Total lines:"))
}

func TestEncodeOversizedPlaceholder(t *testing.T) {
	doc := &models.Document{
		Format:             models.FormatText,
		MaxFileSize:        5,
		MaxSizePlaceholder: "[skipped {{FILENAME}}: {{SIZE}}]",
		Records: []models.FileRecord{
			record("big.txt", "123456789"),
			record("small.txt", "ok"),
		},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)

	assert.Contains(t, result.Output, "[skipped big.txt: 9.00 B]\n")
	assert.NotContains(t, result.Output, "123456789")
	assert.Contains(t, result.Output, "--- small.txt ---")

	// The placeholder stands in for an omitted file, not an included one.
	assert.Equal(t, 1, result.Stats.TotalFiles)
	assert.Equal(t, 2, result.Stats.TotalDiscovered)
}

func TestEncodeOversizedWithoutPlaceholderDropsRecord(t *testing.T) {
	doc := &models.Document{
		Format:      models.FormatText,
		MaxFileSize: 5,
		Records: []models.FileRecord{
			record("big.txt", "123456789"),
			record("small.txt", "ok"),
		},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)
	assert.NotContains(t, result.Output, "big.txt")
	assert.Contains(t, result.Output, "small.txt")
}

func TestEncodeTokenBudgetTruncates(t *testing.T) {
	fixed := func(s string) (int, bool) {
		if s == "" {
			return 0, false
		}
		return 5, false
	}
	doc := &models.Document{
		Format:         models.FormatStructured,
		MaxTotalTokens: 12,
		Records: []models.FileRecord{
			models.NewFileRecord("a.py", "aaaa", fixed),
			models.NewFileRecord("b.py", "bbbb", fixed),
			models.NewFileRecord("c.py", "cccc", fixed),
		},
	}

	result, err := Encode(doc, fixed)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.TotalFiles)
	assert.True(t, result.Stats.TokenLimitReached)
	assert.NotContains(t, result.Output, "c.py")
}

func TestEncodeFirstRecordAlwaysAdmitted(t *testing.T) {
	fixed := func(s string) (int, bool) {
		if s == "" {
			return 0, false
		}
		return 5, false
	}
	doc := &models.Document{
		Format:         models.FormatStructured,
		MaxTotalTokens: 3,
		Records: []models.FileRecord{
			models.NewFileRecord("a.py", "aaaa", fixed),
		},
	}

	result, err := Encode(doc, fixed)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.TotalFiles)
	assert.False(t, result.Stats.TokenLimitReached)
}

func TestEncodeZeroBudgetIsUnlimited(t *testing.T) {
	doc := &models.Document{
		Format:         models.FormatText,
		MaxTotalTokens: 0,
		Records: []models.FileRecord{
			record("a.py", strings.Repeat("word ", 100)),
			record("b.py", strings.Repeat("word ", 100)),
		},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.TotalFiles)
	assert.False(t, result.Stats.TokenLimitReached)
}

func TestEncodeRejectsDuplicatePaths(t *testing.T) {
	doc := &models.Document{
		Format: models.FormatText,
		Records: []models.FileRecord{
			record("a.py", "one"),
			record("a.py", "two"),
		},
	}

	_, err := Encode(doc, nil)
	var cfgErr *models.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "a.py")
}

func TestEncodeUnknownFormat(t *testing.T) {
	doc := &models.Document{Format: "yaml", Records: []models.FileRecord{record("a", "b")}}

	_, err := Encode(doc, nil)
	var cfgErr *models.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestEncodePreservesRecordOrder(t *testing.T) {
	doc := &models.Document{
		Format: models.FormatText,
		Records: []models.FileRecord{
			record("z.py", "1"),
			record("a.py", "2"),
			record("m.py", "3"),
		},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)

	zPos := strings.Index(result.Output, "z.py")
	aPos := strings.Index(result.Output, "a.py")
	mPos := strings.Index(result.Output, "m.py")
	assert.Less(t, zPos, aPos)
	assert.Less(t, aPos, mPos)
}

func TestDecodable(t *testing.T) {
	assert.True(t, Decodable(&models.Document{Format: models.FormatText}))
	assert.True(t, Decodable(&models.Document{Format: models.FormatStructured, HeaderTemplate: "x"}))
	assert.False(t, Decodable(&models.Document{Format: models.FormatText, HeaderTemplate: ">> {{FILENAME}}\n"}))
	assert.False(t, Decodable(&models.Document{Format: models.FormatMarkdown, FooterTemplate: "end\n"}))
}

func TestStatsTotalLinesIncludesFraming(t *testing.T) {
	doc := &models.Document{
		Format:               models.FormatText,
		GlobalHeaderTemplate: "header\n",
		Records:              []models.FileRecord{record("a.py", "l1\nl2\nl3\nl4\nl5")},
	}

	result, err := Encode(doc, nil)
	require.NoError(t, err)

	// 1 global header + 1 record header + 5 content + 1 footer.
	assert.Equal(t, 8, result.Stats.TotalLines)
}

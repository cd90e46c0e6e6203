package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/termquiz/internal/quizgen"
	"github.com/abhisek/termquiz/internal/termpool"
)

func testPool() *termpool.Pool {
	return termpool.Default()
}

func TestAnalyze_CleanGeneratedDataset(t *testing.T) {
	cfg := quizgen.DefaultConfig()
	cfg.TotalCount = 200
	qs, err := quizgen.New(cfg, quizgen.NewRand(3)).Generate(testPool())
	if err != nil {
		t.Fatal(err)
	}

	r := Analyze(qs, cfg.OptionCount())
	assert.Equal(t, 200, r.Total)
	assert.True(t, r.OK(), "unexpected defects: %+v", r)
}

func TestAnalyze_Defects(t *testing.T) {
	qs := []quizgen.Question{
		{ID: 1, Text: "ok", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 0},
		{ID: 2, Text: "blank", Options: []string{"", " ", "", ""}, CorrectIndex: 0},
		{ID: 3, Text: "short", Options: []string{"a", "b", "c"}, CorrectIndex: 1},
		{ID: 4, Text: "range", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 4},
		{ID: 5, Text: "dup", Options: []string{"a", "b", "a", "d"}, CorrectIndex: 1},
		{ID: 6, Text: "a～cに入れる字句の適切な組合せはどれか。", Options: []string{"a", "b", "c", "d"}},
		{ID: 7, Text: "a～cに入れる字句。 a. 営業日数 b. 安全在庫量", Options: []string{"a", "b", "c", "d"}},
		{ID: 1, Text: "again", Options: []string{"a", "b", "c", "d"}},
		{ID: 8, Text: "none", Options: nil},
	}

	r := Analyze(qs, 4)

	assert.Equal(t, 9, r.Total)
	assert.Equal(t, []int{2, 8}, r.EmptyOptions)
	assert.Equal(t, []int{3, 8}, r.WrongOptionCount)
	assert.Equal(t, []int{4, 8}, r.IndexOutOfRange)
	assert.Equal(t, []int{5}, r.DuplicateOptions)
	assert.Equal(t, []int{6}, r.MergedLabels)
	assert.Equal(t, []int{1}, r.DuplicateIDs)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 8}, r.Problematic())
	assert.False(t, r.OK())
}

func TestAnalyze_AnyOptionCount(t *testing.T) {
	qs := []quizgen.Question{{ID: 1, Text: "q", Options: []string{"a", "b"}}}
	r := Analyze(qs, 0)
	assert.Empty(t, r.WrongOptionCount)
}

func TestHasMergedLabels(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"a～cに入れる字句", true},
		{"a~cに入れる字句", true},
		{"a～cに入れる字句 a．発注間隔", false},
		{"普通の問題文", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hasMergedLabels(tt.text), tt.text)
	}
}

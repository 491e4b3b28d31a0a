package stages

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogShape(t *testing.T) {
	all := All()
	require.Len(t, all, Count)
	for i, s := range all {
		assert.Equal(t, i, s.Index)
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Description)
		assert.NotEmpty(t, s.KeyPoints)
	}
	assert.Equal(t, "المرحلة الأولى: تحديد المشكلة القانونية", all[0].Name)
	assert.Equal(t, "المرحلة الثانية عشرة: تقديم التوصيات", all[11].Name)
}

func TestGetPromptContainsText(t *testing.T) {
	text := "عقد بيع عقاري بين طرفين..."
	for _, name := range Names() {
		p := GetPrompt(name, text)
		assert.NotEmpty(t, p)
		assert.Contains(t, p, text, name)
		assert.Contains(t, p, name)
	}
}

func TestGetPromptTruncatesLongText(t *testing.T) {
	long := strings.Repeat("ب", MaxTextLength+500)
	p := GetPrompt(Names()[3], long)

	want := strings.Repeat("ب", MaxTextLength) + TruncationMarker
	assert.Contains(t, p, want)
	assert.NotContains(t, p, strings.Repeat("ب", MaxTextLength+1))
}

func TestGetPromptUnknownStage(t *testing.T) {
	p := GetPrompt("مرحلة غير معروفة", "نص")
	assert.Contains(t, p, "مرحلة غير معروفة")
	assert.Contains(t, p, "نص")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))

	exact := strings.Repeat("a", MaxTextLength)
	assert.Equal(t, exact, Truncate(exact))

	cut := Truncate(strings.Repeat("ع", MaxTextLength+1))
	assert.Equal(t, MaxTextLength+utf8.RuneCountInString(TruncationMarker), utf8.RuneCountInString(cut))
	assert.True(t, strings.HasSuffix(cut, TruncationMarker))
}

func TestByIndex(t *testing.T) {
	s, err := ByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, Names()[0], s.Name)

	for _, i := range []int{-1, Count, 100} {
		_, err := ByIndex(i)
		assert.True(t, errors.Is(err, ErrStageOutOfRange), "index %d", i)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0].KeyPoints[0] = "mutated"
	a[0].Name = "mutated"

	b := All()
	assert.NotEqual(t, "mutated", b[0].Name)
	assert.NotEqual(t, "mutated", b[0].KeyPoints[0])
}

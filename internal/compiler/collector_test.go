package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectPass1ExplicitCodes(t *testing.T) {
	df := &DictFile{
		Name: "t",
		Entries: []SourceEntry{
			{Text: "你", Code: "ni", Weight: "500"},
			{Text: "好", Code: "hao", Weight: "300"},
			{Text: "你好", Code: "ni hao", Weight: "100"},
		},
	}
	c, err := Collect(df, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"hao", "ni"}, c.Syllabary)
	require.Len(t, c.Entries, 3)
}

func TestCollectPass2ScriptEncoderSegmentsKnownWords(t *testing.T) {
	df := &DictFile{
		Name: "t",
		Entries: []SourceEntry{
			{Text: "你", Code: "ni"},
			{Text: "好", Code: "hao"},
			{Text: "你好", Weight: "80"}, // no explicit code: pass 2
		},
	}
	c, err := Collect(df, nil)
	require.NoError(t, err)

	var found bool
	for _, e := range c.Entries {
		if e.Text == "你好" {
			require.Equal(t, []string{"ni", "hao"}, e.Code)
			found = true
		}
	}
	require.True(t, found)
}

func TestCollectPass2TableEncoderUsesPerCharCodes(t *testing.T) {
	df := &DictFile{
		Name: "t",
		Encoder: &EncoderSource{
			Rules: []EncoderRuleSource{{LengthEqual: 2, Formula: "AaBa"}},
		},
		Entries: []SourceEntry{
			{Text: "日", Code: "aa"},
			{Text: "月", Code: "bb"},
			{Text: "日月", Weight: "50"},
		},
	}
	c, err := Collect(df, nil)
	require.NoError(t, err)

	var found bool
	for _, e := range c.Entries {
		if e.Text == "日月" {
			require.Equal(t, []string{"ab"}, e.Code)
			found = true
		}
	}
	require.True(t, found)
}

func TestCollectPass3PresetVocabularyFallback(t *testing.T) {
	df := &DictFile{
		Name: "t",
		Entries: []SourceEntry{
			{Text: "你", Code: "ni"},
		},
	}
	preset := &DictFile{
		Name: "preset",
		Entries: []SourceEntry{
			{Text: "你好", Code: "ni hao", Weight: "42"},
		},
	}
	c, err := Collect(df, preset)
	require.NoError(t, err)

	var found bool
	for _, e := range c.Entries {
		if e.Text == "你好" {
			require.Equal(t, []string{"ni", "hao"}, e.Code)
			require.Equal(t, 42.0, e.Weight)
			found = true
		}
	}
	require.True(t, found)
}

func TestCollectPercentWeightScalesPreset(t *testing.T) {
	df := &DictFile{
		Name: "t",
		Entries: []SourceEntry{
			{Text: "a", Code: "a", Weight: "50%"},
		},
	}
	c, err := Collect(df, nil)
	require.NoError(t, err)
	require.Equal(t, 0.5, c.Entries[0].Weight)
}

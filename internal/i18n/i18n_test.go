package i18n

import (
	"context"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateArabic(t *testing.T) {
	ctx := initLang(t, "ar")

	got := T(ctx, "AppTitle")
	if got != "EduParser - المُنسق الذكي" {
		t.Errorf("T(AppTitle) = %q", got)
	}

	got = T(ctx, "AnswerNeedsReview")
	if got != "يحتاج مراجعة" {
		t.Errorf("T(AnswerNeedsReview) = %q", got)
	}
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "AppTitle")
	if got != "EduParser - Smart Formatter" {
		t.Errorf("T(AppTitle) = %q, want 'EduParser - Smart Formatter'", got)
	}

	got = T(ctx, "AnswerNeedsReview")
	if got != "needs review" {
		t.Errorf("T(AnswerNeedsReview) = %q, want 'needs review'", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "ar")

	got := Td(ctx, "QuestionHeading", map[string]any{"Index": 3, "Text": "What is 2+2?"})
	if got != "س3: What is 2+2?" {
		t.Errorf("Td(QuestionHeading) = %q", got)
	}

	got = Td(ctx, "AnswerLabel", map[string]any{"Answer": "4"})
	if got != "الإجابة الصحيحة: 4" {
		t.Errorf("Td(AnswerLabel) = %q", got)
	}
}

func TestFallbackWithoutLocalizer(t *testing.T) {
	if err := Init("ar"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// A bare context falls back to the Arabic localizer.
	got := T(context.Background(), "AnswerNeedsReview")
	if got != "يحتاج مراجعة" {
		t.Errorf("T with bare context = %q", got)
	}
}

func TestMissingKeyReturnsID(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NoSuchKey")
	if got != "NoSuchKey" {
		t.Errorf("T(NoSuchKey) = %q, want the message ID back", got)
	}
}

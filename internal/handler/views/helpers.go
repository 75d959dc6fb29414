package views

import (
	"context"
	"fmt"

	"github.com/knasser/eduparser/internal/i18n"
	"github.com/knasser/eduparser/internal/model"
)

func stageLabel(ctx context.Context, st model.Stage) string {
	switch st {
	case model.StageUpload:
		return i18n.T(ctx, "StageUpload")
	case model.StageReview:
		return i18n.T(ctx, "StageReview")
	case model.StageStructure:
		return i18n.T(ctx, "StageStructure")
	case model.StageExport:
		return i18n.T(ctx, "StageExport")
	}
	return string(st)
}

func questionAction(i int) string {
	return fmt.Sprintf("/questions/%d", i)
}

func deleteAction(i int) string {
	return fmt.Sprintf("/questions/%d/delete", i)
}

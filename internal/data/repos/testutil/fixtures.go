package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/slideforge-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{ID: uuid.New(), PasswordHash: "pw"}
	if email != "" {
		u.Email = &email
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedDemoUser(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.User {
	tb.Helper()
	u := &types.User{ID: uuid.New(), IsDemo: true}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed demo user: %v", err)
	}
	return u
}

func SeedPresentation(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string) *types.Presentation {
	tb.Helper()
	p := &types.Presentation{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      title,
		SlidesJSON: datatypes.JSON([]byte(`{"slides":[]}`)),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed presentation: %v", err)
	}
	return p
}

func SeedPromptHistory(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, input string) *types.PromptHistory {
	tb.Helper()
	h := &types.PromptHistory{
		ID:         uuid.New(),
		UserID:     userID,
		InputText:  input,
		AIResponse: datatypes.JSON([]byte(`{"slides":[]}`)),
	}
	if err := tx.WithContext(ctx).Create(h).Error; err != nil {
		tb.Fatalf("seed prompt history: %v", err)
	}
	return h
}

func PtrString(v string) *string { return &v }

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/slideforge-backend/internal/data/repos/testutil"
	"github.com/yungbote/slideforge-backend/internal/platform/apierr"
)

func TestPresentationCRUD(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, r.db, "owner@example.com")
	other := testutil.SeedUser(t, ctx, r.db, "other@example.com")
	p := testutil.SeedPresentation(t, ctx, r.db, owner.ID, "Draft")
	ps := NewPresentationService(r.log, r.presentations)

	list, err := ps.List(asUser(owner.ID, false))
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %v", list, err)
	}
	if _, err := ps.Get(asUser(other.ID, false), p.ID.String()); apierr.As(err).Status != http.StatusNotFound {
		t.Fatalf("other user should not see it: %v", err)
	}

	updated, err := ps.Update(asUser(owner.ID, false), PresentationPatch{
		ID:         p.ID.String(),
		Title:      testutil.PtrString("Final"),
		SlidesJSON: json.RawMessage(`{"slides":[{"x":1}]}`),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Final" || string(updated.SlidesJSON) != `{"slides":[{"x":1}]}` {
		t.Fatalf("updated: %+v", updated)
	}

	if err := ps.Delete(asUser(owner.ID, false), p.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := ps.Delete(asUser(owner.ID, false), p.ID.String()); apierr.As(err).Status != http.StatusNotFound {
		t.Fatalf("second delete: %v", err)
	}
}

func TestPresentationIDRequired(t *testing.T) {
	r := newTestRepos(t)
	ps := NewPresentationService(r.log, r.presentations)
	ctx := asUser(uuid.New(), false)

	for name, err := range map[string]error{
		"update": func() error { _, err := ps.Update(ctx, PresentationPatch{}); return err }(),
		"delete": ps.Delete(ctx, " "),
	} {
		ae := apierr.As(err)
		if ae.Status != http.StatusBadRequest || ae.Error() != "Presentation ID required" {
			t.Fatalf("%s: %v", name, err)
		}
	}
	if _, err := ps.Get(ctx, "not-a-uuid"); apierr.As(err).Code != "validation_error" {
		t.Fatalf("bad id: %v", err)
	}
}

func TestExportEditor(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, r.db, "owner@example.com")
	raw, _ := json.Marshal(SlidesDocument{Slides: sampleSlides(2), Meta: SlidesMeta{Theme: "ocean-depth"}})
	p, err := r.presentations.Create(ctx, nil, testPresentation(owner.ID, raw))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ps := NewPresentationService(r.log, r.presentations)

	doc, err := ps.ExportEditor(asUser(owner.ID, false), p.ID.String(), "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(doc.Slides) != 2 || doc.Slides[0].Meta.Theme != "ocean-depth" {
		t.Fatalf("doc: %+v", doc.Slides)
	}

	doc, err = ps.ExportEditor(asUser(owner.ID, false), p.ID.String(), "Dark-Elegant")
	if err != nil || doc.Slides[1].Meta.Theme != "dark-elegant" {
		t.Fatalf("explicit theme: %+v %v", doc.Slides, err)
	}
}

func TestExportEditorEmptyDocument(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, r.db, "owner@example.com")
	p := testutil.SeedPresentation(t, ctx, r.db, owner.ID, "Empty")
	ps := NewPresentationService(r.log, r.presentations)

	doc, err := ps.ExportEditor(asUser(owner.ID, false), p.ID.String(), "")
	if err != nil || len(doc.Slides) != 0 {
		t.Fatalf("doc: %+v %v", doc, err)
	}
}

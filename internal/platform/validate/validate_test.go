package validate

import (
	"errors"
	"net/http"
	"testing"

	"github.com/yungbote/slideforge-backend/internal/platform/apierr"
)

type item struct {
	Content string `json:"content" binding:"required"`
}

type request struct {
	Title  string `json:"title" binding:"required,max=5"`
	Count  int    `json:"count" binding:"min=1,max=3"`
	Email  string `json:"email" binding:"omitempty,email"`
	Color  string `json:"color" binding:"omitempty,hexcolor"`
	Items  []item `json:"items" binding:"dive"`
	Hidden string `json:"-"`
}

func TestStructReportsFieldsInOrder(t *testing.T) {
	err := Struct(request{
		Title: "toolong",
		Count: 9,
		Email: "nope",
		Color: `#fff"><script>`,
		Items: []item{{Content: "ok"}, {}},
	})
	ae := apierr.As(err)
	if ae.Status != http.StatusBadRequest || ae.Code != "validation_error" {
		t.Fatalf("got %+v", ae)
	}
	want := []apierr.FieldError{
		{Field: "title", Message: "must be at most 5 characters"},
		{Field: "count", Message: "must be at most 3"},
		{Field: "email", Message: "must be a valid email address"},
		{Field: "color", Message: "must be a hex color"},
		{Field: "items[1].content", Message: "is required"},
	}
	if len(ae.Details) != len(want) {
		t.Fatalf("details=%+v", ae.Details)
	}
	for i := range want {
		if ae.Details[i] != want[i] {
			t.Fatalf("detail %d: got %+v want %+v", i, ae.Details[i], want[i])
		}
	}
}

func TestStructAcceptsValid(t *testing.T) {
	if err := Struct(request{Title: "ok", Count: 2, Email: "a@b.co", Color: "#A1B2C3"}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestFromErrorPassesOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	if got := FromError(boom); got != boom {
		t.Fatalf("got %v", got)
	}
	if FromError(nil) != nil {
		t.Fatalf("nil should stay nil")
	}
}

package services

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"testing"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	"github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	types "github.com/yungbote/roadmap-backend/internal/domain"
)

func TestComputeInitials(t *testing.T) {
	cases := map[string]string{
		"ana maría lópez": "AM",
		"Órla":            "Ó",
		"j.doe":           "JD",
		"":                "?",
		"  --  ":          "?",
	}
	for in, want := range cases {
		if got := computeInitials(in); got != want {
			t.Fatalf("computeInitials(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestAvatarIsDeterministicPNG(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	svc, err := NewAvatarService(log, repos.NewUserRepo(gdb, log))
	if err != nil {
		t.Fatalf("NewAvatarService: %v", err)
	}

	u := &types.User{Email: "ana.lopez@example.com", DisplayName: "Ana López"}
	a, err := svc.Generate(u)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := svc.Generate(u)
	if err != nil {
		t.Fatalf("Generate again: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("avatar is not deterministic")
	}
	img, err := png.Decode(bytes.NewReader(a))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if got := img.Bounds().Dx(); got != AvatarSize {
		t.Fatalf("width: want=%d got=%d", AvatarSize, got)
	}

	_, err = svc.Render(context.Background(), 987654321)
	wantAPIError(t, err, http.StatusNotFound, "not_found")
}

package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

const AvatarSize = 256

// avatarPalette is the fixed set of background colours; a user always maps to the same one.
var avatarPalette = []color.NRGBA{
	{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF},
	{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF},
	{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF},
	{R: 0x8E, G: 0x24, B: 0xAA, A: 0xFF},
	{R: 0xFB, G: 0x8C, B: 0x00, A: 0xFF},
	{R: 0x00, G: 0x89, B: 0x7B, A: 0xFF},
	{R: 0x3F, G: 0x51, B: 0xB5, A: 0xFF},
	{R: 0x6D, G: 0x4C, B: 0x41, A: 0xFF},
}

type AvatarService interface {
	// Render returns the PNG initials avatar of the user with the given id.
	Render(ctx context.Context, userID uint) ([]byte, error)
	Generate(u *types.User) ([]byte, error)
}

type avatarService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	font     *truetype.Font
	size     int
}

func NewAvatarService(log *logger.Logger, userRepo repos.UserRepo) (AvatarService, error) {
	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse avatar font: %w", err)
	}
	return &avatarService{
		log:      log.With("service", "AvatarService"),
		userRepo: userRepo,
		font:     parsed,
		size:     AvatarSize,
	}, nil
}

func (as *avatarService) Render(ctx context.Context, userID uint) ([]byte, error) {
	u, err := as.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return as.Generate(u)
}

func (as *avatarService) Generate(u *types.User) ([]byte, error) {
	size := float64(as.size)
	dc := gg.NewContext(as.size, as.size)

	dc.DrawCircle(size/2, size/2, size/2)
	dc.Clip()
	dc.SetColor(avatarColor(u.Email))
	dc.DrawRectangle(0, 0, size, size)
	dc.Fill()

	// truetype faces keep a glyph cache and are not safe for concurrent use
	face := truetype.NewFace(as.font, &truetype.Options{
		Size:    size * 0.4,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	defer face.Close()
	dc.SetFontFace(face)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(computeInitials(u.Name()), size/2, size/2, 0.5, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func avatarColor(key string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(key)))
	return avatarPalette[h.Sum32()%uint32(len(avatarPalette))]
}

// computeInitials takes the first letter of the first two words, or "?" when there are none.
func computeInitials(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []rune
	for _, w := range words {
		r := []rune(w)
		out = append(out, unicode.ToUpper(r[0]))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

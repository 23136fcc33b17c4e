package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ExploreTg-App/internal/domain/model"
)

func TestImageNormalizer_Normalize(t *testing.T) {
	n := NewImageNormalizer("http://localhost:3030/", "")

	t.Run("参照が無ければプレースホルダ1枚", func(t *testing.T) {
		assert.Equal(t, []string{DefaultNoImage}, n.Normalize(nil))
		assert.Equal(t, []string{DefaultNoImage}, n.Normalize([]model.RawImage{}))
	})

	t.Run("断片マップを復元してアセットURLにする", func(t *testing.T) {
		raw := []model.RawImage{model.FragmentedImage(map[string]string{"0": "/", "1": "u", "2": "p", "3": "l"})}
		assert.Equal(t, []string{"http://localhost:3030/uploads/lieux/upl"}, n.Normalize(raw))
	})

	t.Run("http(s) のURLはそのまま", func(t *testing.T) {
		raw := []model.RawImage{
			model.PlainImage("https://cdn.example.com/a.jpg"),
			model.PlainImage("HTTP://cdn.example.com/b.jpg"),
		}
		assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "HTTP://cdn.example.com/b.jpg"}, n.Normalize(raw))
	})

	t.Run("ファイルシステムのパスはファイル名だけ使う", func(t *testing.T) {
		raw := []model.RawImage{
			model.PlainImage(`C:\srv\uploads\lieux\hotel.jpg`),
			model.PlainImage("/var/www/uploads/lieux/parc.png"),
			model.PlainImage("plage.webp"),
		}
		assert.Equal(t, []string{
			"http://localhost:3030/uploads/lieux/hotel.jpg",
			"http://localhost:3030/uploads/lieux/parc.png",
			"http://localhost:3030/uploads/lieux/plage.webp",
		}, n.Normalize(raw))
	})

	t.Run("復元できない参照は捨てる", func(t *testing.T) {
		raw := []model.RawImage{
			{},
			model.PlainImage("/uploads/lieux/"),
			model.PlainImage("ok.jpg"),
		}
		assert.Equal(t, []string{"http://localhost:3030/uploads/lieux/ok.jpg"}, n.Normalize(raw))
	})

	t.Run("全て捨てられたらプレースホルダ", func(t *testing.T) {
		raw := []model.RawImage{{}, model.PlainImage("")}
		assert.Equal(t, []string{DefaultNoImage}, n.Normalize(raw))
	})
}

func TestImageNormalizer_HasRealImages(t *testing.T) {
	n := NewImageNormalizer("", "/placeholder.svg")

	assert.Equal(t, "/placeholder.svg", n.Placeholder())
	assert.False(t, n.HasRealImages([]string{"/placeholder.svg"}))
	assert.False(t, n.HasRealImages(nil))
	assert.True(t, n.HasRealImages([]string{"/uploads/lieux/a.jpg"}))

	withImage := &model.Place{Images: []model.RawImage{model.PlainImage("a.jpg")}}
	withoutImage := &model.Place{Images: []model.RawImage{model.PlainImage("")}}
	assert.True(t, n.PlaceHasImages(withImage))
	assert.False(t, n.PlaceHasImages(withoutImage))
}

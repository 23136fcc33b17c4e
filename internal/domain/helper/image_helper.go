package helper

import (
	"strings"

	"ExploreTg-App/internal/domain/model"
)

// DefaultNoImage は画像がない lieu に表示するプレースホルダ
const DefaultNoImage = "/no-image.png"

// ImageNormalizer は etabImages を表示可能な画像URLに変換する
type ImageNormalizer struct {
	assetBaseURL string
	placeholder  string
}

// NewImageNormalizer は新しい ImageNormalizer を作成する
// assetBaseURL はアップロード画像を配信するサーバー（例: http://localhost:3030）
func NewImageNormalizer(assetBaseURL, placeholder string) *ImageNormalizer {
	if placeholder == "" {
		placeholder = DefaultNoImage
	}
	return &ImageNormalizer{
		assetBaseURL: strings.TrimRight(assetBaseURL, "/"),
		placeholder:  placeholder,
	}
}

// Placeholder はプレースホルダURLを返す
func (n *ImageNormalizer) Placeholder() string {
	return n.placeholder
}

// Normalize は画像参照の列を、空でない画像URLの列に変換する
// 復元できない参照は黙って捨て、1枚も残らなければプレースホルダ1枚を返す
func (n *ImageNormalizer) Normalize(raw []model.RawImage) []string {
	if len(raw) == 0 {
		return []string{n.placeholder}
	}

	images := make([]string, 0, len(raw))
	for _, img := range raw {
		if url, ok := n.resolve(img.Path()); ok {
			images = append(images, url)
		}
	}

	if len(images) == 0 {
		return []string{n.placeholder}
	}
	return images
}

// HasRealImages は Normalize の結果に実画像が含まれるか（プレースホルダのみでないか）を判定する
func (n *ImageNormalizer) HasRealImages(images []string) bool {
	if len(images) == 0 {
		return false
	}
	for _, img := range images {
		if img == n.placeholder {
			return false
		}
	}
	return true
}

// PlaceHasImages は lieu に実画像があるかを判定する
func (n *ImageNormalizer) PlaceHasImages(place *model.Place) bool {
	return n.HasRealImages(n.Normalize(place.Images))
}

// resolve は1つのパスをURLに変換する
func (n *ImageNormalizer) resolve(path string) (string, bool) {
	if path == "" {
		return "", false
	}

	if hasHTTPScheme(path) {
		return path, true
	}

	// ファイルシステム上のパス（C:\uploads\lieux\x.jpg など）はファイル名だけ取り出す
	fileName := path
	if idx := strings.LastIndexAny(path, `/\`); idx >= 0 {
		fileName = path[idx+1:]
	}
	if fileName == "" {
		return "", false
	}

	return n.assetBaseURL + "/uploads/lieux/" + fileName, true
}

func hasHTTPScheme(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

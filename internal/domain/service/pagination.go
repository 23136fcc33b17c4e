package service

// DefaultPageSize は一覧の1ページあたりの件数
const DefaultPageSize = 12

// Paginate は1始まりの page に対応する区間 [(page-1)*size, page*size) を返す
// 範囲外は切り詰め、ページが存在しなければ空スライスを返す
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 || page < 1 {
		return []T{}
	}
	// 乗算の前にページ数と比べる。巨大な page でも (page-1)*size が溢れない
	pages := len(items) / size
	if len(items)%size != 0 {
		pages++
	}
	if page > pages {
		return []T{}
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages は「page X / Y」表示用の総ページ数。0件でも1を返す
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// ClampPage は範囲外のページを1に戻す
func ClampPage(page, totalPages int) int {
	if page < 1 || page > totalPages {
		return 1
	}
	return page
}

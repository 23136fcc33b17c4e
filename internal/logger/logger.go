package logger

import (
	"os"
	"strings"

	"github.com/phuslu/log"
)

// Setup LOG_LEVEL / LOG_FORMAT に従ってグローバルロガーを設定する
// format は "json" なら1行JSON、それ以外は人が読むコンソール形式
func Setup(level, format string) {
	log.DefaultLogger = New(level, format)
}

// New 設定済みのロガーを作る（テストでは出力先を差し替えて使う）
func New(level, format string) log.Logger {
	logger := log.Logger{
		Level:      log.ParseLevel(strings.ToLower(level)),
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	if strings.EqualFold(format, "json") {
		logger.Writer = &log.IOWriter{Writer: os.Stdout}
	} else {
		logger.Writer = &log.ConsoleWriter{
			ColorOutput:    true,
			QuoteString:    true,
			EndWithMessage: true,
		}
	}
	return logger
}

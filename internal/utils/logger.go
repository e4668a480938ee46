package utils

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Print 全局日志；未调用 Init 前也可直接使用
var Print = New(os.Stderr)

// New 创建带统一样式的 logger
func New(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "vibejo",
	})
	l.SetStyles(styles())
	return l
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG🔍").
		Padding(0, 1, 0, 1).
		Foreground(lipgloss.Color("#888888FF"))

	s.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO🃏").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("#90EE9080")).
		Foreground(lipgloss.Color("#006400FF")).Bold(true)

	s.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN🍪").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("#FFD700FF")).
		Foreground(lipgloss.Color("#000000FF")).Bold(true)

	s.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR🔥").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("#FF0000FF")).
		Foreground(lipgloss.Color("#00FFFF00")).Bold(true)

	s.Levels[log.FatalLevel] = lipgloss.NewStyle().
		SetString("FATAL⚡️").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("#000000FF")).
		Foreground(lipgloss.Color("#00FFFF00")).Bold(true)
	return s
}

// Init 按配置设置日志级别（debug/info/warn/error），无法解析时保持 info
func Init(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		Print.Warn("unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	Print.SetLevel(lvl)
}

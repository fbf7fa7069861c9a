package tui

import "go.trai.ch/shadercache/internal/ui/style"

var diagnosticStyle = style.Diagnostic

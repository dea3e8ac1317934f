package commands

import (
	"context"

	"github.com/doeshing/linux-agent/internal/app"
)

// ContainerProvider builds the dependency container on first use, after flags are parsed.
type ContainerProvider func(ctx context.Context) (*app.Container, error)

// Error messages
const (
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrJournalUnavailable       = "journal disabled (set journal.enabled in the config file)"
	ErrQueryRequired            = "--query required"
	ErrInvalidLimit             = "--limit must be >= 1"
	ErrExportUnsupported        = "journal does not support export"
)

// Success messages
const (
	MsgNoJournalRecords = "No journal records yet."
	MsgJournalCleared   = "Journal cleared."
)

// outputPreviewLimit caps the output column of journal listings.
const outputPreviewLimit = 60

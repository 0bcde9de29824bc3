package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/voiceprint/voiceprint/internal/config"
	"github.com/voiceprint/voiceprint/internal/export"
	"github.com/voiceprint/voiceprint/internal/store"
)

// exportSessions is how many recent sessions exports include.
const exportSessions = 20

// exportFilenames returns the files an auto-export of formats writes.
// Unknown formats are left out.
func exportFilenames(formats []string) []string {
	var names []string
	for _, f := range formats {
		if exp, ok := export.Get(f); ok {
			names = append(names, exp.Filename())
		}
	}
	return names
}

// exportData loads what the exporters render for userID.
func exportData(st *store.Store, userID string) (export.ExportData, error) {
	p, err := st.Profiles.Load(userID)
	if err != nil {
		return export.ExportData{}, err
	}
	sessions, err := st.Sessions.List(userID, exportSessions)
	if err != nil {
		return export.ExportData{}, err
	}
	return export.ExportData{Profile: p, Sessions: sessions}, nil
}

// autoExport writes every configured format for userID into the export
// directory. It is best-effort: failures are reported to w but never abort
// the caller.
func autoExport(root string, cfg config.GlobalConfig, st *store.Store, userID string, w io.Writer) []string {
	if len(cfg.Export.Formats) == 0 {
		return nil
	}
	data, err := exportData(st, userID)
	if err != nil {
		fmt.Fprintf(w, "  warn: auto-export failed: %v\n", err)
		return nil
	}

	written, err := export.WriteAll(config.Resolve(root, cfg.Export.Dir), cfg.Export.Formats, data)
	if err != nil {
		fmt.Fprintf(w, "  warn: auto-export: %v\n", err)
	}
	if len(written) > 0 {
		names := make([]string, len(written))
		for i, p := range written {
			names[i] = filepath.Base(p)
		}
		fmt.Fprintf(w, "  auto-exported: %s\n", strings.Join(names, ", "))
	}
	return written
}

package enginekv

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/renameio/v2"
)

// Snapshot writes a point-in-time, human-readable dump of every
// namespace/database/table to path, replacing the file atomically so a
// reader never observes a partially-written snapshot. This is a
// durability demo for the in-memory reference backend, not a restore
// format: enginekv has no WAL or on-disk representation to recover from
// (spec.md §1 places real storage durability out of scope), so Snapshot
// exists to let an operator inspect what the reference backend holds at
// shutdown, the same atomic-rename discipline a production engine's
// checkpoint writer would use.
func (d *Datastore) Snapshot(path string) error {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644), renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("renameio.NewPendingFile: %w", err)
	}
	defer pf.Cleanup()

	if err := d.writeSnapshot(pf); err != nil {
		return err
	}

	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("renameio.CloseAtomicallyReplace: %w", err)
	}
	return nil
}

func (d *Datastore) writeSnapshot(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	nsdbKeys := make([]string, 0, len(d.byNSDB))
	for k := range d.byNSDB {
		nsdbKeys = append(nsdbKeys, k)
	}
	sort.Strings(nsdbKeys)

	for _, nsdb := range nsdbKeys {
		store := d.byNSDB[nsdb]
		fmt.Fprintf(w, "--- %s\n", strings.ReplaceAll(nsdb, "\x00", "."))

		store.mu.RLock()
		tableNames := make([]string, 0, len(store.tables))
		for name := range store.tables {
			tableNames = append(tableNames, name)
		}
		sort.Strings(tableNames)

		for _, name := range tableNames {
			tb := store.tables[name]
			for _, id := range tb.allIDs() {
				rec, ok := tb.get(id)
				if !ok {
					continue
				}
				fmt.Fprintf(w, "%s:%s %s\n", name, id, rec.String())
			}
		}
		store.mu.RUnlock()
	}
	return nil
}

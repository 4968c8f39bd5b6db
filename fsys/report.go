package fsys

import (
	"github.com/gocarina/gocsv"
)

// InventoryRow is one line of the CSV inventory report: one row per file,
// with the owning subdirectory named alongside it.
type InventoryRow struct {
	Directory  string `csv:"directory"`
	Name       string `csv:"name"`
	Ext        string `csv:"ext"`
	SizeBytes  int32  `csv:"size_bytes"`
	IndexBlock int64  `csv:"index_block"`
}

// GenerateReport walks every subdirectory of root and every file within it,
// producing a flat CSV inventory of the whole filesystem. Rows are ordered by
// subdirectory, then by file, matching on-disk entry order rather than any
// sort.
func (fs *FileSystem) GenerateReport() (string, error) {
	root, err := fs.readRoot()
	if err != nil {
		return "", err
	}

	var rows []InventoryRow
	for _, dirEntry := range root.Entries {
		sub, err := fs.readSubdirectory(dirEntry.StartBlock)
		if err != nil {
			return "", err
		}
		for _, fileEntry := range sub.Entries {
			rows = append(rows, InventoryRow{
				Directory:  dirEntry.Name,
				Name:       fileEntry.Name,
				Ext:        fileEntry.Ext,
				SizeBytes:  fileEntry.Size,
				IndexBlock: fileEntry.IndexBlock,
			})
		}
	}

	return gocsv.MarshalString(&rows)
}

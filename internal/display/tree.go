package display

import (
	"fmt"
	"io"

	"srcbundle/internal/encode"
	"srcbundle/internal/models"
)

// PrintTree writes the discovered record set as a directory tree, labeled
// with the root folder name.
func PrintTree(w io.Writer, records []models.FileRecord, root string) {
	fmt.Fprint(w, encode.TreeString(records, root))
}

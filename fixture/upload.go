package fixture

import (
	"context"
	"os"
	"path/filepath"

	"github.com/annlab/annfix/blobstore"
	"github.com/annlab/annfix/distance"
)

// UploadArtifacts copies every fixture artifact present in dir (index files
// and reports, for all metrics) to the blob store, one at a time. It returns
// the names of the uploaded blobs.
func UploadArtifacts(ctx context.Context, store blobstore.BlobStore, dir string) ([]string, error) {
	var names []string
	for _, metric := range distance.Metrics() {
		for _, name := range []string{IndexFileName(metric), ReportFileName(metric)} {
			data, err := os.ReadFile(filepath.Join(dir, name))
			if os.IsNotExist(err) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if err := store.Put(ctx, name, data); err != nil {
				return nil, err
			}
			names = append(names, name)
		}
	}
	return names, nil
}

// Package storage writes the tracker's flat-file artifacts.
//
// Every file goes through WriteAtomic: data is written to a temporary file in
// the target directory, synced, and renamed into place. An interrupted run
// therefore leaves either the previous file or the complete new one.
//
//	manager, err := storage.NewManager("data")
//	if err != nil {
//	    return err
//	}
//	path, err := manager.Save("results.csv", func(w io.Writer) error {
//	    return writeRows(w)
//	})
package storage

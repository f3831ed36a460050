package table

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// openInput opens path for reading, stacking a decompressor on top of
// the file when the extension asks for one.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(path) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []func() error{zr.Close, f.Close}}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		closeDecoder := func() error {
			zr.Close()
			return nil
		}
		return &readCloser{Reader: zr, closers: []func() error{closeDecoder, f.Close}}, nil
	}
	return f, nil
}

// createOutput creates or truncates path for writing, stacking a
// compressor on top of the file when the extension asks for one.
func createOutput(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(path) {
	case ".gz":
		zw := gzip.NewWriter(f)
		return &writeCloser{Writer: zw, closers: []func() error{zw.Close, f.Close}}, nil
	case ".zst":
		zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			f.Close()
			return nil, err
		}
		return &writeCloser{Writer: zw, closers: []func() error{zw.Close, f.Close}}, nil
	}
	return f, nil
}

// readCloser pairs a decompressing reader with the file beneath it so
// Close releases both, decompressor first.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc *readCloser) Close() error {
	return closeAll(rc.closers)
}

// writeCloser pairs a compressor with the file beneath it so Close
// flushes the compressed stream before closing the file.
type writeCloser struct {
	io.Writer
	closers []func() error
}

func (wc *writeCloser) Close() error {
	return closeAll(wc.closers)
}

func closeAll(closers []func() error) error {
	var first error
	for _, close := range closers {
		if err := close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

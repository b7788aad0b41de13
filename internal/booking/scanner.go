package booking

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/platerecognizer"
)

// FileScanner «камера», которая отдает снимок из файла.
// Файл держится открытым, пока устройство не закрыто
type FileScanner struct {
	Path string
}

func (s FileScanner) Open(_ context.Context) (Device, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open scanner source: %w", err)
	}
	return &fileDevice{f: f}, nil
}

type fileDevice struct {
	f *os.File
}

func (d *fileDevice) Capture(ctx context.Context) (platerecognizer.Image, error) {
	if err := ctx.Err(); err != nil {
		return platerecognizer.Image{}, err
	}
	data, err := io.ReadAll(d.f)
	if err != nil {
		return platerecognizer.Image{}, fmt.Errorf("read frame: %w", err)
	}

	name := filepath.Base(d.f.Name())
	return platerecognizer.Image{
		Filename:    name,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		Data:        data,
	}, nil
}

func (d *fileDevice) Close() error {
	return d.f.Close()
}

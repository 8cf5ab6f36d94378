// Package mnist reads the MNIST handwritten digit dataset from its IDX
// files and turns it into float32 batches for training.
//
// Both files are big-endian: the image file is the magic number 2051, the
// image count, the row and column counts (always 28) and then one byte per
// pixel; the label file is the magic number 2049, the label count and one
// byte per label.
package mnist

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	imageMagic = 2051
	labelMagic = 2049

	// Rows and Cols are the image dimensions.
	Rows = 28
	Cols = 28
	// ImageSize is the number of pixels per image.
	ImageSize = Rows * Cols
	// NumClasses is the number of distinct labels.
	NumClasses = 10
)

// Dataset holds images and their labels in file order.
type Dataset struct {
	Images [][]byte // each ImageSize bytes, row-major
	Labels []byte
}

// Load reads an image file and a label file and checks that they agree.
func Load(imagePath, labelPath string) (*Dataset, error) {
	images, err := ReadImages(imagePath)
	if err != nil {
		return nil, err
	}
	labels, err := ReadLabels(labelPath)
	if err != nil {
		return nil, err
	}
	if len(images) != len(labels) {
		return nil, newError(KindShape, "Load", "",
			fmt.Errorf("%d images but %d labels", len(images), len(labels)))
	}
	for i, l := range labels {
		if l >= NumClasses {
			return nil, newError(KindShape, "Load", labelPath,
				fmt.Errorf("label %d at index %d out of range", l, i))
		}
	}
	return &Dataset{Images: images, Labels: labels}, nil
}

// ReadImages reads an IDX image file.
func ReadImages(path string) ([][]byte, error) {
	const op = "ReadImages"

	f, err := os.Open(path)
	if err != nil {
		return nil, newError(KindIO, op, path, err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var hdr [4]uint32
	if err := readHeader(r, hdr[:1]); err != nil {
		return nil, newError(KindIO, op, path, err)
	}
	if hdr[0] != imageMagic {
		return nil, newError(KindImageMagic, op, path, fmt.Errorf("magic %d, want %d", hdr[0], imageMagic))
	}
	if err := readHeader(r, hdr[1:]); err != nil {
		return nil, newError(KindIO, op, path, err)
	}
	count, rows, cols := hdr[1], hdr[2], hdr[3]
	if rows != Rows || cols != Cols {
		return nil, newError(KindShape, op, path, fmt.Errorf("images are %dx%d, want %dx%d", rows, cols, Rows, Cols))
	}

	images := make([][]byte, 0, min(int(count), 1<<16))
	for i := uint32(0); i < count; i++ {
		im := make([]byte, ImageSize)
		if _, err := io.ReadFull(r, im); err != nil {
			return nil, newError(KindIO, op, path, fmt.Errorf("image %d: %w", i, eof(err)))
		}
		images = append(images, im)
	}
	return images, nil
}

// ReadLabels reads an IDX label file.
func ReadLabels(path string) ([]byte, error) {
	const op = "ReadLabels"

	f, err := os.Open(path)
	if err != nil {
		return nil, newError(KindIO, op, path, err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var hdr [2]uint32
	if err := readHeader(r, hdr[:1]); err != nil {
		return nil, newError(KindIO, op, path, err)
	}
	if hdr[0] != labelMagic {
		return nil, newError(KindLabelMagic, op, path, fmt.Errorf("magic %d, want %d", hdr[0], labelMagic))
	}
	if err := readHeader(r, hdr[1:]); err != nil {
		return nil, newError(KindIO, op, path, err)
	}

	labels := make([]byte, 0, min(int(hdr[1]), 1<<20))
	for i := uint32(0); i < hdr[1]; i++ {
		l, err := r.ReadByte()
		if err != nil {
			return nil, newError(KindIO, op, path, fmt.Errorf("label %d: %w", i, eof(err)))
		}
		labels = append(labels, l)
	}
	return labels, nil
}

func readHeader(r io.Reader, dst []uint32) error {
	return eof(binary.Read(r, binary.BigEndian, dst))
}

// eof reports a short file as io.ErrUnexpectedEOF.
func eof(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// Batch returns bs examples starting at start: pixels scaled to [0, 1] as a
// row-major (bs, ImageSize) matrix and one-hot targets as (bs, NumClasses).
// The range must lie inside the dataset.
func (d *Dataset) Batch(start, bs int) (x, y []float32) {
	if start < 0 || bs < 0 || start+bs > d.Len() {
		panic(fmt.Sprintf("mnist: batch [%d, %d) out of range [0, %d)", start, start+bs, d.Len()))
	}
	x = make([]float32, bs*ImageSize)
	y = make([]float32, bs*NumClasses)
	for i := 0; i < bs; i++ {
		row := x[i*ImageSize : (i+1)*ImageSize]
		for j, px := range d.Images[start+i] {
			row[j] = float32(px) / 255
		}
		y[i*NumClasses+int(d.Labels[start+i])] = 1
	}
	return x, y
}

package loader

import (
	"fmt"
	"image"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/pbr-go/common"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/mdouchement/hdr"
	_ "github.com/mdouchement/hdr/codec/rgbe" // registers the Radiance .hdr format with image.Decode
)

// LoadHDR reads a Radiance (.hdr) equirectangular environment map from a file into a
// PixelBuffer of linear RGBA float32 texels.
//
// Parameters:
//   - path: the file path to the .hdr image
//
// Returns:
//   - *common.PixelBuffer: the decoded linear float pixel data
//   - error: error if the file cannot be opened or decoded
func LoadHDR(path string) (*common.PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	buf, err := DecodeHDR(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return buf, nil
}

// DecodeHDR decodes a Radiance .hdr stream into a PixelBuffer of linear RGBA float32
// texels. Scanline conversion is spread across a worker pool since large environment
// maps (4k x 2k and up) are common.
//
// Parameters:
//   - r: the reader providing Radiance .hdr data
//
// Returns:
//   - *common.PixelBuffer: the decoded linear float pixel data
//   - error: error if decoding fails or the image is not a high dynamic range format
func DecodeHDR(r io.Reader) (*common.PixelBuffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("image is not a high dynamic range format")
	}

	bounds := hdrImg.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}

	pix := make([]float32, width*height*4)

	// One task per scanline; rows write disjoint slices so no locking is needed.
	pool := worker.NewDynamicWorkerPool(max(runtime.NumCPU()-1, 1), height, 1*time.Second)
	var wg sync.WaitGroup
	for y := 0; y < height; y++ {
		wg.Add(1)
		row := y
		pool.SubmitTask(worker.Task{
			ID: row,
			Do: func() (any, error) {
				defer wg.Done()

				offset := row * width * 4
				for x := 0; x < width; x++ {
					red, green, blue, _ := hdrImg.HDRAt(bounds.Min.X+x, bounds.Min.Y+row).HDRRGBA()
					pix[offset] = float32(red)
					pix[offset+1] = float32(green)
					pix[offset+2] = float32(blue)
					pix[offset+3] = 1.0
					offset += 4
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	return &common.PixelBuffer{
		Pix:    pix,
		Width:  uint32(width),
		Height: uint32(height),
	}, nil
}

package parallel

// MinBandPixels is the smallest amount of work, in pixels, worth handing to
// another goroutine. Images below twice this size are filled inline.
const MinBandPixels = 64 * 1024

// Band is a half-open range of rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// Split divides height rows of the given width into at most n contiguous
// bands of near-equal size. Each band holds at least MinBandPixels pixels
// unless the whole image is smaller. The bands cover [0, height) in order.
func Split(width, height, n int) []Band {
	if height <= 0 || width <= 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	minRows := max(MinBandPixels/width, 1)
	n = min(n, max(height/minRows, 1))

	bands := make([]Band, 0, n)
	base, extra := height/n, height%n
	y := 0
	for i := range n {
		rows := base
		if i < extra {
			rows++
		}
		bands = append(bands, Band{Y0: y, Y1: y + rows})
		y += rows
	}
	return bands
}

// FillRows calls fill once per band of a width×height image, using up to
// workers goroutines. With workers <= 1, or when the image yields a single
// band, fill runs on the calling goroutine. FillRows returns the bands used.
func FillRows(width, height, workers int, fill func(Band)) []Band {
	bands := Split(width, height, workers)
	if len(bands) <= 1 || workers <= 1 {
		for _, b := range bands {
			fill(b)
		}
		return bands
	}

	pool := NewWorkerPool(min(workers, len(bands)))
	defer pool.Close()

	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fill(b) }
	}
	pool.ExecuteAll(work)
	return bands
}

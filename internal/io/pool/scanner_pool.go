package pool

import (
	"sync"

	"github.com/logdeck/core/internal/constants"
)

// ScannerBufferPool provides a pool of buffers sized for bufio.Scanner's
// internal buffer, reused across adb logcat lines to avoid a per-line
// allocation under sustained throughput.
var ScannerBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, constants.LineBufferInitialCapacity)
		return &buf
	},
}

// GetScannerBuffer gets a pooled buffer sized for bufio.Scanner.Buffer.
func GetScannerBuffer() *[]byte {
	return ScannerBufferPool.Get().(*[]byte)
}

// PutScannerBuffer returns a scanner buffer to the pool.
func PutScannerBuffer(buf *[]byte) {
	if buf == nil {
		return
	}
	ScannerBufferPool.Put(buf)
}

package orders

import (
	"sync/atomic"
	"time"
)

var lastCode atomic.Int64

// NewCode: order code numerik, basis unix-milli + monotonic.
// Dua panggilan dalam milidetik yang sama tetap dapat kode berbeda.
func NewCode() int64 {
	for {
		now := time.Now().UnixMilli()
		last := lastCode.Load()
		if now <= last {
			now = last + 1
		}
		if lastCode.CompareAndSwap(last, now) {
			return now
		}
	}
}

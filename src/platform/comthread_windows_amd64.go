package platform

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	ole "github.com/go-ole/go-ole"
)

var errCOMClosed = errors.New("COM thread closed")

const sFalse = 1

// comThread owns one OS thread in the multithreaded apartment. Every COM
// call and release runs on it.
type comThread struct {
	calls    chan func()
	quit     chan struct{}
	done     chan struct{}
	quitOnce sync.Once
}

func startCOMThread() (*comThread, error) {
	t := &comThread{
		calls: make(chan func(), 16),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	ready := make(chan error, 1)
	go t.loop(ready)
	if err := <-ready; err != nil {
		return nil, err
	}
	return t, nil
}

func (t *comThread) loop(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			ready <- fmt.Errorf("CoInitializeEx: %w", err)
			return
		}
	}
	defer ole.CoUninitialize()
	ready <- nil

	for {
		select {
		case fn := <-t.calls:
			fn()
		case <-t.quit:
			// drain pending releases
			for {
				select {
				case fn := <-t.calls:
					fn()
				default:
					return
				}
			}
		}
	}
}

// do runs fn on the COM thread and waits for it. Panics inside fn come back
// as errors.
func (t *comThread) do(fn func() error) error {
	res := make(chan error, 1)
	call := func() {
		defer func() {
			if r := recover(); r != nil {
				res <- fmt.Errorf("COM call panicked: %v", r)
			}
		}()
		res <- fn()
	}
	select {
	case t.calls <- call:
	case <-t.done:
		return errCOMClosed
	}
	select {
	case err := <-res:
		return err
	case <-t.done:
		return errCOMClosed
	}
}

// post queues fn without waiting; it is dropped once the thread is gone.
func (t *comThread) post(fn func()) {
	select {
	case t.calls <- fn:
	case <-t.done:
	default:
		go func() {
			select {
			case t.calls <- fn:
			case <-t.done:
			}
		}()
	}
}

func (t *comThread) close() {
	t.quitOnce.Do(func() { close(t.quit) })
	<-t.done
}

// comObject is a counted COM reference released on the COM thread when the
// Go value is collected.
type comObject struct {
	unk *ole.IUnknown
}

func newCOMObject(t *comThread, unk *ole.IUnknown) *comObject {
	o := &comObject{unk: unk}
	runtime.SetFinalizer(o, func(o *comObject) {
		unk := o.unk
		t.post(func() { unk.Release() })
	})
	return o
}

// method returns vtable slot index of obj.
func method(obj *ole.IUnknown, index int) uintptr {
	vtbl := (*[64]uintptr)(unsafe.Pointer(obj.RawVTable))
	return vtbl[index]
}

func hresult(hr uintptr) error {
	if int32(hr) < 0 {
		return ole.NewError(hr)
	}
	return nil
}

// takeBSTR converts and frees a BSTR returned through an out parameter.
func takeBSTR(b *uint16) string {
	if b == nil {
		return ""
	}
	s := ole.BstrToString(b)
	ole.SysFreeString((*int16)(unsafe.Pointer(b)))
	return s
}

// packPoint passes a POINT by value in a single register.
func packPoint(x, y int) uintptr {
	return uintptr(uint32(int32(x))) | uintptr(uint32(int32(y)))<<32
}

// Command capi builds the C-style embedding interface as a C shared
// library (go build -buildmode=c-shared): a fixed-size set of cgo-exported
// functions so non-Go callers can create a cipher, encrypt and decrypt
// UTF-8 buffers, and destroy the cipher, without linking against Go types.
// It mirrors original_source/src/libfpe.cpp's four-function, four-error-
// code contract; a runtime/cgo.Handle takes the place of that version's
// raw void* cast as the opaque handle type.
package main

/*
#include <stddef.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	unifpe "github.com/vdparikh/unifpe"
)

// Result codes, matching libfpe.cpp's contract exactly.
const (
	resultSuccess        C.int = 0
	resultNullArgument   C.int = 1
	resultBufferTooSmall C.int = 2
	resultInternalError  C.int = 3
)

// testKey and testTweak are the all-zero default key material
// unicodefpe_create used in the original: a fixed cipher suitable for
// smoke-testing the embedding boundary itself, not for production secrecy.
// Real deployments should provision key material through the tinkfpe
// package and build their own cgo-exported constructor around fpe.New.
var (
	testKey   = make([]byte, 16)
	testTweak = make([]byte, 4)
)

//export unifpe_create
func unifpe_create() C.uintptr_t {
	c, err := unifpe.New(testKey, testTweak)
	if err != nil {
		return 0
	}
	h := cgo.NewHandle(c)
	return C.uintptr_t(h)
}

//export unifpe_encrypt
func unifpe_encrypt(handle C.uintptr_t, input *C.char, inputLen C.size_t, output *C.char, outputCapacity C.size_t) C.int {
	return transform(handle, input, inputLen, output, outputCapacity, true)
}

//export unifpe_decrypt
func unifpe_decrypt(handle C.uintptr_t, input *C.char, inputLen C.size_t, output *C.char, outputCapacity C.size_t) C.int {
	return transform(handle, input, inputLen, output, outputCapacity, false)
}

func transform(handle C.uintptr_t, input *C.char, inputLen C.size_t, output *C.char, outputCapacity C.size_t, forward bool) (res C.int) {
	if handle == 0 || input == nil || output == nil {
		return resultNullArgument
	}

	defer func() {
		if r := recover(); r != nil {
			res = resultInternalError
		}
	}()

	c, ok := cgo.Handle(handle).Value().(*unifpe.Cipher)
	if !ok {
		return resultInternalError
	}

	in := C.GoBytes(unsafe.Pointer(input), C.int(inputLen))

	var out []byte
	var err error
	if forward {
		out, err = c.Encrypt(in)
	} else {
		out, err = c.Decrypt(in)
	}
	if err != nil {
		return resultInternalError
	}

	if C.size_t(len(out)) >= outputCapacity {
		return resultBufferTooSmall
	}

	dst := unsafe.Slice((*byte)(unsafe.Pointer(output)), int(outputCapacity))
	n := copy(dst, out)
	dst[n] = 0 // NUL-terminate, per libfpe.cpp

	return resultSuccess
}

//export unifpe_destroy
func unifpe_destroy(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	cgo.Handle(handle).Delete()
}

func main() {}

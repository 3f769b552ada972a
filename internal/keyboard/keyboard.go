// Package keyboard implements the CHIP-8 16 key hexadecimal keypad.
//
// Key state is written by host input goroutines and read by the interpreter.
// Every key is an independent atomic boolean, readers get a per key snapshot.
package keyboard

import "sync/atomic"

// KeyCount is the number of keys of the keypad.
const KeyCount = 16

// Keypad holds the pressed state of the 16 keys 0x0-0xF.
type Keypad struct {
	keys [KeyCount]atomic.Bool
}

// New returns a keypad with all keys released.
func New() *Keypad {
	return &Keypad{}
}

// IsPressed returns whether the given key is pressed. Values above 0xF
// are never pressed.
func (k *Keypad) IsPressed(key uint8) bool {
	if key >= KeyCount {
		return false
	}
	return k.keys[key].Load()
}

// AnyPressed returns the lowest pressed key.
func (k *Keypad) AnyPressed() (uint8, bool) {
	for i := range k.keys {
		if k.keys[i].Load() {
			return uint8(i), true
		}
	}
	return 0, false
}

// Press marks the key as pressed.
func (k *Keypad) Press(key uint8) {
	k.Set(key, true)
}

// Release marks the key as released.
func (k *Keypad) Release(key uint8) {
	k.Set(key, false)
}

// Set sets the state of a key, values above 0xF are ignored.
func (k *Keypad) Set(key uint8, pressed bool) {
	if key >= KeyCount {
		return
	}
	k.keys[key].Store(pressed)
}

// ReleaseAll releases every key.
func (k *Keypad) ReleaseAll() {
	for i := range k.keys {
		k.keys[i].Store(false)
	}
}

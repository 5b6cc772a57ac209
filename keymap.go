package main

import (
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// KeyCodeMap maps calibration key names to Linux input keycodes. The
// uinput virtual keyboard consumes the same code space, so these values
// feed injection directly. Names follow the labels the calibration
// files use: lowercase, spaces between words.
var KeyCodeMap = map[string]evdev.EvCode{
	"a": evdev.KEY_A, "b": evdev.KEY_B, "c": evdev.KEY_C, "d": evdev.KEY_D,
	"e": evdev.KEY_E, "f": evdev.KEY_F, "g": evdev.KEY_G, "h": evdev.KEY_H,
	"i": evdev.KEY_I, "j": evdev.KEY_J, "k": evdev.KEY_K, "l": evdev.KEY_L,
	"m": evdev.KEY_M, "n": evdev.KEY_N, "o": evdev.KEY_O, "p": evdev.KEY_P,
	"q": evdev.KEY_Q, "r": evdev.KEY_R, "s": evdev.KEY_S, "t": evdev.KEY_T,
	"u": evdev.KEY_U, "v": evdev.KEY_V, "w": evdev.KEY_W, "x": evdev.KEY_X,
	"y": evdev.KEY_Y, "z": evdev.KEY_Z,

	"1": evdev.KEY_1, "2": evdev.KEY_2, "3": evdev.KEY_3, "4": evdev.KEY_4,
	"5": evdev.KEY_5, "6": evdev.KEY_6, "7": evdev.KEY_7, "8": evdev.KEY_8,
	"9": evdev.KEY_9, "0": evdev.KEY_0,

	"-":  evdev.KEY_MINUS,
	"=":  evdev.KEY_EQUAL,
	"[":  evdev.KEY_LEFTBRACE,
	"]":  evdev.KEY_RIGHTBRACE,
	";":  evdev.KEY_SEMICOLON,
	"'":  evdev.KEY_APOSTROPHE,
	"`":  evdev.KEY_GRAVE,
	"\\": evdev.KEY_BACKSLASH,
	",":  evdev.KEY_COMMA,
	".":  evdev.KEY_DOT,
	"/":  evdev.KEY_SLASH,

	"space":     evdev.KEY_SPACE,
	"enter":     evdev.KEY_ENTER,
	"return":    evdev.KEY_ENTER,
	"tab":       evdev.KEY_TAB,
	"backspace": evdev.KEY_BACKSPACE,
	"escape":    evdev.KEY_ESC,
	"esc":       evdev.KEY_ESC,
	"delete":    evdev.KEY_DELETE,
	"insert":    evdev.KEY_INSERT,
	"home":      evdev.KEY_HOME,
	"end":       evdev.KEY_END,
	"page up":   evdev.KEY_PAGEUP,
	"page down": evdev.KEY_PAGEDOWN,

	"up":    evdev.KEY_UP,
	"down":  evdev.KEY_DOWN,
	"left":  evdev.KEY_LEFT,
	"right": evdev.KEY_RIGHT,

	"left shift":  evdev.KEY_LEFTSHIFT,
	"right shift": evdev.KEY_RIGHTSHIFT,
	"left ctrl":   evdev.KEY_LEFTCTRL,
	"right ctrl":  evdev.KEY_RIGHTCTRL,
	"left alt":    evdev.KEY_LEFTALT,
	"right alt":   evdev.KEY_RIGHTALT,
	"left meta":   evdev.KEY_LEFTMETA,
	"right meta":  evdev.KEY_RIGHTMETA,
	"caps lock":   evdev.KEY_CAPSLOCK,
	"num lock":    evdev.KEY_NUMLOCK,

	"f1": evdev.KEY_F1, "f2": evdev.KEY_F2, "f3": evdev.KEY_F3,
	"f4": evdev.KEY_F4, "f5": evdev.KEY_F5, "f6": evdev.KEY_F6,
	"f7": evdev.KEY_F7, "f8": evdev.KEY_F8, "f9": evdev.KEY_F9,
	"f10": evdev.KEY_F10, "f11": evdev.KEY_F11, "f12": evdev.KEY_F12,
}

// LookupKeyCode resolves a calibration key name to its keycode. Names
// match case-insensitively, with underscores treated as spaces.
func LookupKeyCode(name string) (evdev.EvCode, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", " ")
	code, ok := KeyCodeMap[n]
	return code, ok
}

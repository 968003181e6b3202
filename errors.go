package skyraster

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid rasterizer input")
	ErrEmptyInput   = fmt.Errorf("cannot build a rasterizer from zero pixel addresses: %w", ErrInvalidInput)
)

type InvalidImageSizeError struct {
	Width  int
	Height int
}

func NewInvalidImageSizeError(width int, height int) InvalidImageSizeError {
	return InvalidImageSizeError{
		Width:  width,
		Height: height,
	}
}

func (i InvalidImageSizeError) Error() string {
	return fmt.Sprintf("image size %dx%d must be positive in both dimensions", i.Width, i.Height)
}

func (i InvalidImageSizeError) Unwrap() error {
	return ErrInvalidInput
}

type ValueCountMismatchError struct {
	Expected int
	Got      int
}

func NewValueCountMismatchError(expected int, got int) ValueCountMismatchError {
	return ValueCountMismatchError{
		Expected: expected,
		Got:      got,
	}
}

func (v ValueCountMismatchError) Error() string {
	return fmt.Sprintf("expected %d values, one per pixel address, got %d", v.Expected, v.Got)
}

func (v ValueCountMismatchError) Unwrap() error {
	return ErrInvalidInput
}

type InvalidNsideError struct {
	Nside int
}

func NewInvalidNsideError(nside int) InvalidNsideError {
	return InvalidNsideError{Nside: nside}
}

func (i InvalidNsideError) Error() string {
	return fmt.Sprintf("nside %d is not a positive power of two", i.Nside)
}

func (i InvalidNsideError) Unwrap() error {
	return ErrInvalidInput
}

type PixelOutOfRangeError struct {
	Position int
	Address  PixelAddress
}

func NewPixelOutOfRangeError(position int, address PixelAddress) PixelOutOfRangeError {
	return PixelOutOfRangeError{
		Position: position,
		Address:  address,
	}
}

func (p PixelOutOfRangeError) Error() string {
	return fmt.Sprintf("pixel address %d (%v) is outside the 12*nside^2 pixels of its resolution", p.Position, p.Address)
}

func (p PixelOutOfRangeError) Unwrap() error {
	return ErrInvalidInput
}

type UnknownProjectionError struct {
	Name string
}

func NewUnknownProjectionError(name string) UnknownProjectionError {
	return UnknownProjectionError{Name: name}
}

func (u UnknownProjectionError) Error() string {
	return fmt.Sprintf("projection '%s' is not one of cartesian, mollweide, eckert-iv, hammer", u.Name)
}

func (u UnknownProjectionError) Unwrap() error {
	return ErrInvalidInput
}

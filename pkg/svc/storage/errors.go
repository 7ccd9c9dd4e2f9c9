package storage

import "errors"

var (
	// ErrNoFreeLoopDevice is returned when losetup cannot find a free loop device.
	ErrNoFreeLoopDevice = errors.New("no free loop device")
	// ErrUnexpectedLoopDevice is returned when losetup reports a device name that is not /dev/loopN.
	ErrUnexpectedLoopDevice = errors.New("unexpected loop device name")
	// ErrTooManyVolumes is returned when the volume group cannot give every logical volume a whole percent.
	ErrTooManyVolumes = errors.New("too many logical volumes")
)

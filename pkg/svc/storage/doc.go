// Package storage creates and destroys the loop-back backed LVM volume group
// that host containers deploy their OSDs onto.
//
// The group and its logical volumes have well-known names (vg1, lv0..lvN) so
// every later step can address them without persisted state. LVM is driven
// through its command line tools via a transport, with sudo unless the
// process already runs as root.
package storage

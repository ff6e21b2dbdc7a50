// Package disc handles optical drive interaction: tray status via the
// CDROM_DRIVE_STATUS ioctl, udev-based insert detection, and eject.
package disc

// Package gpiochip opens controller pins through the Linux GPIO character
// device (/dev/gpiochipN) using the uAPI v2 line ioctls. It registers the
// "gpiochip" transport backend; on other platforms the package is empty.
package gpiochip

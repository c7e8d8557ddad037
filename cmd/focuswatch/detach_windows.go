//go:build windows

package main

import "syscall"

func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{HideWindow: true}
}

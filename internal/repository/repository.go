package repository

// Package repository contains persistence abstractions for the playlist.
// Implementations live in subpackages (e.g., file) inside this directory.

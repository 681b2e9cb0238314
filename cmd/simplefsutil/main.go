// simplefsutil is a small command-line driver over the disk and filesystem
// packages: format an image, print its debug dump, and create/stat/read/
// write a single inode. It is tooling built atop the library, not a shell;
// every invocation runs one verb and exits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/simplefs/simplefs/disk"
	"github.com/simplefs/simplefs/filesystem"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: simplefsutil <command> [flags]")
	fmt.Fprintln(os.Stderr, "commands: format, debug, create, stat, read, write")
	flag.PrintDefaults()
}

func run() error {
	if len(os.Args) < 2 {
		usage()
		return errors.New("missing command")
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "format":
		return runFormat(args)
	case "debug":
		return runDebug(args)
	case "create":
		return runCreate(args)
	case "stat":
		return runStat(args)
	case "read":
		return runRead(args)
	case "write":
		return runWrite(args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runFormat(args []string) error {
	fl := flag.NewFlagSet("format", flag.ExitOnError)
	path := fl.String("image", "", "path to the disk image")
	blocks := fl.Uint("blocks", 0, "total number of blocks")
	if err := fl.Parse(args); err != nil {
		return err
	}
	if *path == "" || *blocks == 0 {
		return errors.New("format: -image and -blocks are required")
	}

	dev, err := disk.Open(*path, uint32(*blocks))
	if err != nil {
		return err
	}
	defer dev.Close()

	fs := &filesystem.FileSystem{}
	if err := filesystem.Format(fs, dev); err != nil {
		return err
	}
	logrus.WithField("image", *path).Info("formatted")
	return nil
}

func runDebug(args []string) error {
	fl := flag.NewFlagSet("debug", flag.ExitOnError)
	path := fl.String("image", "", "path to the disk image")
	blocks := fl.Uint("blocks", 0, "total number of blocks")
	if err := fl.Parse(args); err != nil {
		return err
	}
	if *path == "" || *blocks == 0 {
		return errors.New("debug: -image and -blocks are required")
	}

	dev, err := disk.Open(*path, uint32(*blocks))
	if err != nil {
		return err
	}
	defer dev.Close()

	return filesystem.Debug(dev, os.Stdout)
}

func openMounted(path string, blocks uint32) (*filesystem.FileSystem, *disk.Device, error) {
	dev, err := disk.Open(path, blocks)
	if err != nil {
		return nil, nil, err
	}
	fs := &filesystem.FileSystem{}
	if err := filesystem.Mount(fs, dev); err != nil {
		dev.Close()
		return nil, nil, err
	}
	return fs, dev, nil
}

func runCreate(args []string) error {
	fl := flag.NewFlagSet("create", flag.ExitOnError)
	path := fl.String("image", "", "path to the disk image")
	blocks := fl.Uint("blocks", 0, "total number of blocks")
	if err := fl.Parse(args); err != nil {
		return err
	}
	fs, dev, err := openMounted(*path, uint32(*blocks))
	if err != nil {
		return err
	}
	defer dev.Close()
	defer filesystem.Unmount(fs)

	n, err := fs.Create()
	if err != nil {
		return err
	}
	fmt.Println(n)
	return nil
}

func runStat(args []string) error {
	fl := flag.NewFlagSet("stat", flag.ExitOnError)
	path := fl.String("image", "", "path to the disk image")
	blocks := fl.Uint("blocks", 0, "total number of blocks")
	inode := fl.Int64("inode", -1, "inode number")
	if err := fl.Parse(args); err != nil {
		return err
	}
	fs, dev, err := openMounted(*path, uint32(*blocks))
	if err != nil {
		return err
	}
	defer dev.Close()
	defer filesystem.Unmount(fs)

	size, err := fs.Stat(*inode)
	if err != nil {
		return err
	}
	fmt.Println(size)
	return nil
}

func runRead(args []string) error {
	fl := flag.NewFlagSet("read", flag.ExitOnError)
	path := fl.String("image", "", "path to the disk image")
	blocks := fl.Uint("blocks", 0, "total number of blocks")
	inode := fl.Int64("inode", -1, "inode number")
	offset := fl.Int64("offset", 0, "byte offset to start at")
	length := fl.Int("length", 0, "number of bytes to read")
	if err := fl.Parse(args); err != nil {
		return err
	}
	fs, dev, err := openMounted(*path, uint32(*blocks))
	if err != nil {
		return err
	}
	defer dev.Close()
	defer filesystem.Unmount(fs)

	buf := make([]byte, *length)
	n, err := fs.Read(*inode, buf, *offset)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(buf[:n])
	return err
}

func runWrite(args []string) error {
	fl := flag.NewFlagSet("write", flag.ExitOnError)
	path := fl.String("image", "", "path to the disk image")
	blocks := fl.Uint("blocks", 0, "total number of blocks")
	inode := fl.Int64("inode", -1, "inode number")
	offset := fl.Int64("offset", 0, "byte offset to start at")
	text := fl.String("data", "", "bytes to write, taken literally")
	if err := fl.Parse(args); err != nil {
		return err
	}
	fs, dev, err := openMounted(*path, uint32(*blocks))
	if err != nil {
		return err
	}
	defer dev.Close()
	defer filesystem.Unmount(fs)

	n, err := fs.Write(*inode, []byte(*text), *offset)
	if err != nil {
		return err
	}
	fmt.Println(n)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "simplefsutil:", err)
		os.Exit(1)
	}
}

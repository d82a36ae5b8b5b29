package main

import (
	"github.com/fatih/color"
)

var (
	brand  = color.New(color.FgHiYellow, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

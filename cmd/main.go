package main

import (
	"github.com/gal-ch/green-market/internal/app"
	"github.com/gal-ch/green-market/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}

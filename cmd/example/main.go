package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	widgetclasses "github.com/goliatone/go-widget-classes"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("widget classes example: %v", err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("widget-classes-example", flag.ContinueOnError)
	fs.SetOutput(out)
	widgetID := fs.String("widget", "text-2", "Widget id in <id_base>-<number> form")
	classes := fs.String("classes", "hero  hero wide", "Raw classes string submitted from the admin form")
	before := fs.String("before-widget", `<section class="widget">`, "Wrapper markup emitted before the widget")
	storage := fs.String("storage", "memory", "Storage provider (memory or bun)")
	dsn := fs.String("dsn", "file:widget_classes_example?mode=memory&cache=shared", "DSN used by the bun provider")
	logLevel := fs.String("log-level", "info", "Logger level")
	showForm := fs.Bool("form", true, "Print the admin field markup")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := widgetclasses.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Level = *logLevel
	cfg.Logging.Format = "console"
	cfg.Storage.Provider = strings.TrimSpace(*storage)
	if strings.EqualFold(cfg.Storage.Provider, "bun") {
		cfg.Storage.DSN = *dsn
		cfg.Cache.Enabled = true
	}

	module, err := widgetclasses.New(cfg)
	if err != nil {
		return fmt.Errorf("build module: %w", err)
	}
	defer module.Close()

	ctx := context.Background()
	desc, err := module.Register(widgetclasses.Descriptor{ID: *widgetID})
	if err != nil {
		return fmt.Errorf("register widget: %w", err)
	}

	if _, err := module.Save(ctx, widgetclasses.SaveInput{
		WidgetID:  desc.ID,
		Submitted: widgetclasses.InstanceSettings{cfg.Admin.FieldKey: *classes},
	}); err != nil {
		return fmt.Errorf("save classes: %w", err)
	}

	if *showForm {
		form, err := module.Form(ctx, desc.ID)
		if err != nil {
			return fmt.Errorf("render form: %w", err)
		}
		fmt.Fprintln(out, form)
	}

	params := module.Apply(ctx, widgetclasses.SidebarParams{
		WidgetID:     desc.ID,
		WidgetName:   desc.Name,
		BeforeWidget: *before,
	})
	fmt.Fprintln(out, params.BeforeWidget)
	return nil
}

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shawwn/ylang/config"
	"github.com/shawwn/ylang/image"
	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/runtime"
)

var (
	imageName  string
	imageEvals []string
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Save, inspect and list runtime snapshots",
}

var imageSaveCmd = &cobra.Command{
	Use:   "save [PATH]",
	Short: "Snapshot the runtime to a file or, with --name, to the store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadConfig()
		if err != nil {
			return err
		}
		rt, err := restoreRuntime(f)
		if err != nil {
			return err
		}
		defer rt.Close()

		for _, src := range imageEvals {
			if _, err := evalString(rt, src); err != nil {
				return err
			}
		}
		snap, err := image.Capture(rt)
		if err != nil {
			return err
		}

		if imageName != "" {
			store, err := image.OpenStore(f.StorePath())
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Put(imageName, snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s to %s\n", imageName, f.StorePath())
			return nil
		}

		path := f.ImagePath()
		if len(args) == 1 {
			path = args[0]
		}
		if err := image.WriteFile(path, snap); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
		return nil
	},
}

var imageShowCmd = &cobra.Command{
	Use:   "show [PATH]",
	Short: "Print the symbols and bindings of a snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadConfig()
		if err != nil {
			return err
		}
		snap, err := loadSnapshot(f, args)
		if err != nil {
			return err
		}
		rt, err := snap.Restore(runtime.FromFile(f))
		if err != nil {
			return err
		}
		defer rt.Close()
		return showRuntime(cmd.OutOrStdout(), rt)
	},
}

var imageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := image.OpenStore(f.StorePath())
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSYMBOLS\tBINDINGS\tBYTES\tSAVED")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", e.Name, e.Symbols, e.Bindings, e.Size,
				e.Saved.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var imageDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Remove a snapshot from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := image.OpenStore(f.StorePath())
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Delete(args[0])
	},
}

func init() {
	imageSaveCmd.Flags().StringVarP(&imageName, "name", "n", "",
		"Store the snapshot under this name instead of writing a file")
	imageSaveCmd.Flags().StringArrayVarP(&imageEvals, "eval", "e", nil,
		"Evaluate forms before capturing (repeatable)")
	imageShowCmd.Flags().StringVarP(&imageName, "name", "n", "",
		"Show a stored snapshot instead of a file")

	imageCmd.AddCommand(imageSaveCmd, imageShowCmd, imageListCmd, imageDeleteCmd)
}

// loadSnapshot reads the named stored snapshot, or the file given in args,
// or the configured image file.
func loadSnapshot(f *config.File, args []string) (*image.Snapshot, error) {
	if imageName != "" {
		store, err := image.OpenStore(f.StorePath())
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Get(imageName)
	}
	path := f.ImagePath()
	if len(args) == 1 {
		path = args[0]
	}
	return image.ReadFile(path)
}

// restoreRuntime builds a runtime from the --image file when given, and
// from the configuration alone otherwise.
func restoreRuntime(f *config.File) (*runtime.Runtime, error) {
	if imagePath == "" {
		return runtime.New(runtime.FromFile(f))
	}
	snap, err := image.ReadFile(imagePath)
	if err != nil {
		return nil, err
	}
	return snap.Restore(runtime.FromFile(f))
}

func showRuntime(w io.Writer, rt *runtime.Runtime) error {
	fmt.Fprintf(w, "symbols: %d\n", rt.Table().Len())
	reg := rt.Registry()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range reg.Bindings() {
		v, _ := reg.LookupValue(s)
		fmt.Fprintf(tw, "%s\t%s\n", s, lisp.Sprint(v))
	}
	return tw.Flush()
}

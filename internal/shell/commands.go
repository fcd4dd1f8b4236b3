// File: commands.go
// Title: Built-in Commands
// Description: Registers the built-in command set: connection lifecycle,
//              tree navigation, property access, event subscription, role
//              search, feature flags and cache control.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-08
// Modified: 2025-11-08
//
// Change History:
// - 2025-11-08 v0.1.0: Initial command set

package shell

import (
	"context"
	"strings"

	mdcerror "github.com/msto63/mDC/foundation/core/error"
	"github.com/msto63/mDC/internal/object"
	"github.com/msto63/mDC/internal/session"
)

// propertyClasses restricts property and subscription commands to objects
// that actually expose properties
var propertyClasses = []object.ClassID{object.ClassWorker, object.ClassAgent, object.ClassManager}

// RegisterBuiltins fills a registry with the standard command set
func RegisterBuiltins(r *Registry) {
	r.Register(&Spec{
		Names:   []string{"help", "?"},
		Summary: "list commands or show details for one command",
		MinArgs: 0,
		Args:    []ArgSpec{{Name: "command", Type: ArgString}},
		Offline: true,
		Run:     runHelp,
	})

	r.Register(&Spec{
		Names:   []string{"connect"},
		Summary: "connect to the device",
		Offline: true,
		Run:     runConnect,
	})

	r.Register(&Spec{
		Names:   []string{"disconnect"},
		Summary: "close the device connection",
		Offline: true,
		Run:     runDisconnect,
	})

	r.Register(&Spec{
		Names:   []string{"exit", "quit"},
		Summary: "leave the shell",
		Offline: true,
		Run: func(ctx context.Context, env *Env, args *Args) error {
			return ErrExit
		},
	})

	r.Register(&Spec{
		Names:   []string{"statistics", "stats"},
		Summary: "show connection statistics",
		Offline: true,
		Run: func(ctx context.Context, env *Env, args *Args) error {
			env.Out.Printf("%s", env.Session.Device().Stats().String())
			return nil
		},
	})

	r.Register(&Spec{
		Names:   []string{"cd"},
		Summary: "change the current object",
		MinArgs: 0,
		Args:    []ArgSpec{{Name: "target", Type: ArgObject}},
		Run: func(ctx context.Context, env *Env, args *Args) error {
			target := args.Object(0)
			if target == nil {
				target = env.Session.Device().Root()
			}
			env.Session.ChangeCurrentPath(ctx, target)
			return nil
		},
	})

	r.Register(&Spec{
		Names:   []string{"pwd"},
		Summary: "print the current path",
		Run: func(ctx context.Context, env *Env, args *Args) error {
			env.Out.Println(env.Session.PromptPath())
			return nil
		},
	})

	r.Register(&Spec{
		Names:   []string{"pushd"},
		Summary: "push the current object and change to the target",
		MinArgs: -1,
		Args:    []ArgSpec{{Name: "target", Type: ArgObject}},
		Run: func(ctx context.Context, env *Env, args *Args) error {
			env.Session.Push(ctx, args.Object(0))
			return nil
		},
	})

	r.Register(&Spec{
		Names:   []string{"popd"},
		Summary: "return to the most recently pushed object",
		Run: func(ctx context.Context, env *Env, args *Args) error {
			return env.Session.PopPath(ctx)
		},
	})

	r.Register(&Spec{
		Names:   []string{"up"},
		Summary: "change to the owner of the current object",
		Run: func(ctx context.Context, env *Env, args *Args) error {
			return env.Session.Up(ctx)
		},
	})

	r.Register(&Spec{
		Names:   []string{"ls", "list"},
		Summary: "list the children of the current object or a target",
		MinArgs: 0,
		Args:    []ArgSpec{{Name: "target", Type: ArgObject}},
		Run:     runList,
	})

	r.Register(&Spec{
		Names:   []string{"tree"},
		Summary: "print the subtree below the current object or a target",
		MinArgs: 0,
		Args:    []ArgSpec{{Name: "target", Type: ArgObject}},
		Run:     runTree,
	})

	r.Register(&Spec{
		Names:   []string{"get"},
		Summary: "read a property of the current object",
		Classes: propertyClasses,
		MinArgs: -1,
		Args:    []ArgSpec{{Name: "property", Type: ArgString}},
		Run: func(ctx context.Context, env *Env, args *Args) error {
			name := args.String(0, "")
			value, err := env.Session.Device().GetProperty(ctx, env.Session.Current(), name)
			if err != nil {
				return err
			}
			env.Out.Printf("%s = %s\n", name, value)
			return nil
		},
	})

	r.Register(&Spec{
		Names:   []string{"set"},
		Summary: "write a property of the current object",
		Classes: propertyClasses,
		MinArgs: -1,
		Args: []ArgSpec{
			{Name: "property", Type: ArgString},
			{Name: "value", Type: ArgString},
		},
		Run: func(ctx context.Context, env *Env, args *Args) error {
			return env.Session.Device().SetProperty(ctx, env.Session.Current(), args.String(0, ""), args.String(1, ""))
		},
	})

	r.Register(&Spec{
		Names:   []string{"subscribe", "sub"},
		Summary: "subscribe to change events of a property",
		Classes: propertyClasses,
		MinArgs: -1,
		Args:    []ArgSpec{{Name: "property", Type: ArgString}},
		Run: func(ctx context.Context, env *Env, args *Args) error {
			return env.Session.Device().Subscribe(ctx, env.Session.Current(), args.String(0, ""))
		},
	})

	r.Register(&Spec{
		Names:   []string{"unsubscribe", "unsub"},
		Summary: "drop a property subscription",
		Classes: propertyClasses,
		MinArgs: -1,
		Args:    []ArgSpec{{Name: "property", Type: ArgString}},
		Run: func(ctx context.Context, env *Env, args *Args) error {
			return env.Session.Device().Unsubscribe(ctx, env.Session.Current(), args.String(0, ""))
		},
	})

	r.Register(&Spec{
		Names:   []string{"find"},
		Summary: "search roles below the current object by substring",
		MinArgs: 1,
		Args: []ArgSpec{
			{Name: "substring", Type: ArgString},
			{Name: "recurse", Type: ArgBool},
		},
		Run: runFind,
	})

	r.Register(&Spec{
		Names:   []string{"flags"},
		Summary: "show the session feature flags",
		Run: func(ctx context.Context, env *Env, args *Args) error {
			flags := env.Session.Flags()
			for _, name := range flags.Names() {
				state := "off"
				if flags.Enabled(name) {
					state = "on"
				}
				env.Out.Printf("%-34s %s\n", name, state)
			}
			return nil
		},
	})

	r.Register(&Spec{
		Names:   []string{"set-flag"},
		Summary: "enable a session feature flag",
		MinArgs: -1,
		Args:    []ArgSpec{{Name: "flag", Type: ArgString}},
		Complete: func(s *session.Session) []string {
			return s.Flags().Names()
		},
		Run: func(ctx context.Context, env *Env, args *Args) error {
			return env.Session.Flags().Set(args.String(0, ""))
		},
	})

	r.Register(&Spec{
		Names:   []string{"clear-flag"},
		Summary: "disable a session feature flag",
		MinArgs: -1,
		Args:    []ArgSpec{{Name: "flag", Type: ArgString}},
		Complete: func(s *session.Session) []string {
			return s.Flags().Names()
		},
		Run: func(ctx context.Context, env *Env, args *Args) error {
			return env.Session.Flags().Clear(args.String(0, ""))
		},
	})

	r.Register(&Spec{
		Names:   []string{"clear-cache"},
		Summary: "drop all sparse path cache entries",
		Run: func(ctx context.Context, env *Env, args *Args) error {
			env.Session.ClearCache(ctx)
			return nil
		},
	})
}

func runHelp(ctx context.Context, env *Env, args *Args) error {
	if !args.Bound(0) {
		for _, spec := range env.Registry.Specs() {
			env.Out.Printf("%-14s %s\n", spec.Name(), spec.Summary)
		}
		return nil
	}

	spec := env.Registry.Lookup(args.String(0, ""))
	if spec == nil {
		return mdcerror.Newf("unknown command %q", args.String(0, "")).
			WithCode(mdcerror.CodeParameterError).
			WithOperation("shell.help")
	}

	env.Out.Printf("%s - %s\n", strings.Join(spec.Names, ", "), spec.Summary)

	if len(spec.Args) > 0 {
		env.Out.Printf("arguments:\n")
		required := spec.requiredArgs()
		for i, arg := range spec.Args {
			optional := ""
			if i >= required {
				optional = " (optional)"
			}
			env.Out.Printf("  %-12s %s%s\n", arg.Name, arg.Type, optional)
		}
	}
	if len(spec.Classes) > 0 {
		classes := make([]string, 0, len(spec.Classes))
		for _, class := range spec.Classes {
			classes = append(classes, string(class))
		}
		env.Out.Printf("applies to:   %s\n", strings.Join(classes, ", "))
	}
	if spec.Offline {
		env.Out.Printf("usable while disconnected\n")
	}
	return nil
}

func runConnect(ctx context.Context, env *Env, args *Args) error {
	device := env.Session.Device()
	if device.Connected() {
		return nil
	}

	if err := device.Connect(ctx); err != nil {
		return err
	}

	env.Session.Reset(ctx)

	if env.Session.Flags().Enabled(session.FlagRefreshOnConnect) {
		if err := refreshTree(ctx, env, device.Root()); err != nil {
			return err
		}
	}
	return nil
}

// refreshTree primes the device-side child caches with a full recursive
// enumeration starting at root
func refreshTree(ctx context.Context, env *Env, root *object.Descriptor) error {
	if !root.IsComposite() {
		return nil
	}

	children, err := env.Session.Device().ListChildren(ctx, root, false)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := refreshTree(ctx, env, child); err != nil {
			return err
		}
	}
	return nil
}

func runDisconnect(ctx context.Context, env *Env, args *Args) error {
	device := env.Session.Device()
	if !device.Connected() {
		return nil
	}
	return device.Disconnect(ctx)
}

func runList(ctx context.Context, env *Env, args *Args) error {
	target := args.Object(0)
	if target == nil {
		target = env.Session.Current()
	}

	if !target.IsComposite() {
		return mdcerror.Newf("%s cannot hold children", target).
			WithCode(mdcerror.CodeObjectClassMismatch).
			WithOperation("shell.ls")
	}

	children, err := env.Session.Device().ListChildren(ctx, target, false)
	if err != nil {
		return err
	}

	for _, child := range children {
		env.Out.Printf("%-24s %s\n", child.String(), child.Class)
	}
	return nil
}

func runTree(ctx context.Context, env *Env, args *Args) error {
	target := args.Object(0)
	if target == nil {
		target = env.Session.Current()
	}

	if !target.IsComposite() {
		return mdcerror.Newf("%s cannot hold children", target).
			WithCode(mdcerror.CodeObjectClassMismatch).
			WithOperation("shell.tree")
	}

	env.Out.Printf("%s\n", target.String())
	return printSubtree(ctx, env, target, 1)
}

func printSubtree(ctx context.Context, env *Env, node *object.Descriptor, depth int) error {
	children, err := env.Session.Device().ListChildren(ctx, node, false)
	if err != nil {
		return err
	}

	indent := strings.Repeat("  ", depth)
	for _, child := range children {
		env.Out.Printf("%s%s\n", indent, child.String())
		if child.IsComposite() {
			if err := printSubtree(ctx, env, child, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func runFind(ctx context.Context, env *Env, args *Args) error {
	results, err := env.Session.Device().FindByRole(ctx, env.Session.Current(), args.String(0, ""), args.Bool(1, true))
	if err != nil {
		return err
	}

	if len(results) == 0 {
		env.Out.Println("no matches")
		return nil
	}
	for _, result := range results {
		env.Out.Printf("%-32s %s %s\n", result.ContainerPath.Join(result.Role).String(), result.Handle, result.Class)
	}
	return nil
}

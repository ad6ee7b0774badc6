// Package mods composes and executes mod chains.
//
// A mod is one transformation step bound to a single slot, where a slot is a
// (platform, artifact) pair such as android/manifest or ios/infoPlist. Every
// contribution registered for a slot is kept in registration order inside a
// ModConfig tree. At evaluation time the contributions are composed into one
// chain that runs them strictly one after another:
//
//	tree := mods.NewModConfig()
//	mods.Register(tree, slot, "first", first)
//	mods.Register(tree, slot, "second", second)
//	tree.Freeze()
//
//	out, err := mods.Evaluate(mods.ExportedConfig{Config: cfg, Mods: tree}, slot, req, base)
//
// Each link returns a Future. Synchronous links return an already resolved
// one (Continue, Stop, Fail); asynchronous links return Async. The executor
// waits on every future before moving its cursor to the next link, so a link
// always observes the committed output of the one before it.
//
// A link ends the chain either by returning Stop, which is a normal terminal
// state whose payload becomes the result, or by failing, which aborts the
// remaining links and surfaces a CHAIN_EXECUTION error to the caller. There is
// no retry, priority, or cancellation.
//
// The package never reads or writes files and never looks inside a payload:
// decoding the artifact before Evaluate and encoding it afterward belongs to
// the format packages and the prebuild driver.
package mods

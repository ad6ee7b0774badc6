package mods

// Mod is one transformation step of a chain
type Mod[T any] func(cfg ExportedConfigWithProps[T]) *Future[T]

// Link is a mod together with the name it was registered under
type Link[T any] struct {
	Name string
	Mod  Mod[T]
}

// Func adapts a synchronous transformation that edits the value in place and
// always continues the chain
func Func[T any](fn func(cfg *ExportedConfigWithProps[T]) error) Mod[T] {
	return func(cfg ExportedConfigWithProps[T]) *Future[T] {
		if err := fn(&cfg); err != nil {
			return Fail[T](err)
		}
		return Continue(cfg)
	}
}

// ResultsFunc adapts a synchronous transformation of the payload alone
func ResultsFunc[T any](fn func(results T) (T, error)) Mod[T] {
	return Func(func(cfg *ExportedConfigWithProps[T]) error {
		out, err := fn(cfg.ModResults)
		if err != nil {
			return err
		}
		cfg.ModResults = out
		return nil
	})
}

// Terminal adapts a synchronous transformation that ends the chain once it
// has run
func Terminal[T any](fn func(cfg *ExportedConfigWithProps[T]) error) Mod[T] {
	return func(cfg ExportedConfigWithProps[T]) *Future[T] {
		if err := fn(&cfg); err != nil {
			return Fail[T](err)
		}
		return Stop(cfg)
	}
}

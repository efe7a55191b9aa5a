package runtime

// NewNative1 wraps a unary host function.
func NewNative1(name string, fn func(Value) (Value, error)) *NativeFunctionValue {
	return curry(name, 1, nil, func(args []Value) (Value, error) {
		return fn(args[0])
	})
}

// NewNative2 curries a binary host function: the returned native accepts the
// first argument and yields a native closing over it that expects the second.
func NewNative2(name string, fn func(Value, Value) (Value, error)) *NativeFunctionValue {
	return curry(name, 2, nil, func(args []Value) (Value, error) {
		return fn(args[0], args[1])
	})
}

// NewNative3 curries a ternary host function.
func NewNative3(name string, fn func(Value, Value, Value) (Value, error)) *NativeFunctionValue {
	return curry(name, 3, nil, func(args []Value) (Value, error) {
		return fn(args[0], args[1], args[2])
	})
}

// curry builds the native for a host function that has already received
// args. Partial applications keep the host function's name. Every step copies
// the collected arguments, so a partial application can be applied any number
// of times without the results interfering.
func curry(name string, arity int, args []Value, run func([]Value) (Value, error)) *NativeFunctionValue {
	return &NativeFunctionValue{
		Name:  name,
		Arity: arity - len(args),
		Impl: func(arg Value) (Value, error) {
			next := make([]Value, len(args)+1)
			copy(next, args)
			next[len(args)] = arg
			if len(next) == arity {
				return run(next)
			}
			return curry(name, arity, next, run), nil
		},
	}
}

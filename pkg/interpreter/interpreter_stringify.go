package interpreter

import (
	"fmt"
	"strconv"

	"fun/interpreter-go/pkg/runtime"
)

// FormatValue renders a runtime value the way print and the CLI show it.
// Functions are opaque.
func FormatValue(val runtime.Value) string {
	switch v := val.(type) {
	case runtime.BoolValue:
		if v.Val {
			return "True"
		}
		return "False"
	case runtime.IntegerValue:
		return strconv.FormatInt(int64(v.Val), 10)
	case runtime.UnitValue:
		return "Unit"
	case *runtime.FunctionValue, *runtime.NativeFunctionValue:
		return "<fun>"
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("[%s]", v.Kind())
	}
}

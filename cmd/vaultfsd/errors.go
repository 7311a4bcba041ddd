package main

import "fmt"

func unsupportedOperation(op string) error {
	return fmt.Errorf("unsupported operation %q", op)
}

package errors

import "strings"

// ValidateClassName checks a class name typed by a user before it is used
// as a query. Only an empty name is rejected here, as ErrCodeInvalidInput;
// whether the name is a known class is decided by the walk.
func ValidateClassName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "Please enter a Class Name.")
	}
	return nil
}

// ValidateInputPath checks a dependency file path typed by a user.
func ValidateInputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidInput, "Please enter a File Name.")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidInput, "file name contains a null byte")
	}
	return nil
}

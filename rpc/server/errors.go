package server

import "fmt"

type ErrListening struct {
	Addr   string
	Source error
}

func (e ErrListening) Error() string {
	return fmt.Sprintf("failed to listen on: %s :%v", e.Addr, e.Source)
}

func (e ErrListening) Unwrap() error {
	return e.Source
}

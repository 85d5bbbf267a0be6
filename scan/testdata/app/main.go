package main

var ticks int

func main() {
	for {
	}
}

//go:export timer0_handler
func onTimer() {
	ticks++
}

//go:export onUART uart_handler

func onUART() {}

// helper is not a handler
func helper() int {
	return ticks
}

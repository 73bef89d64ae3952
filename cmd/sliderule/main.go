// Command sliderule talks to the SlideRule service from the command line.
package main

import "github.com/aalemi-dev/sliderule-go/cmd/sliderule/cmd"

func main() {
	cmd.Execute()
}

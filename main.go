package main

import "github.com/GogikarMahashri/MEDCARE-QR/cmd/medcare"

func main() {
	medcare.Execute()
}

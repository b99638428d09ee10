// Package main - test_runner.go
// Executable to run Shadow Mode stress tests.
package main

import (
	"fmt"
	"os"

	"github.com/MRamiBalles/SalonMascotasJuego/server/test"
)

func main() {
	fmt.Println("🐾 SALÓN DE MASCOTAS - SHADOW MODE TEST SUITE")
	fmt.Println("=============================================")

	// Test 1: Full grooming day
	fmt.Println("\n🧪 Iniciando Test: El Día de Peluquería...")
	dayTest := test.NewSalonDayTest()
	dayTest.RunTest()

	// Summary
	results := dayTest.GetResults()
	passed := 0
	failed := 0

	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n" + string(repeatChar('=', 60)))
	fmt.Println("📊 RESUMEN DE PRUEBAS")
	fmt.Println(string(repeatChar('=', 60)))
	fmt.Printf("   ✅ Pasadas: %d\n", passed)
	fmt.Printf("   ❌ Fallidas: %d\n", failed)

	if failed > 0 {
		fmt.Println("\n⚠️  El salón requiere recalibración")
		os.Exit(1)
	} else {
		fmt.Println("\n✅ El salón está listo para abrir")
		os.Exit(0)
	}
}

func repeatChar(c byte, count int) []byte {
	result := make([]byte, count)
	for i := 0; i < count; i++ {
		result[i] = c
	}
	return result
}

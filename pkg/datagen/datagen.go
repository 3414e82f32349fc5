// Package datagen genera solicitudes de registro aleatorias para pruebas de carga.
package datagen

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/jhoicas/registro-usuarios/internal/application/dto"
)

var (
	nombres   = []string{"Lucia", "Mateo", "Sofia", "Santiago", "Valentina", "Sebastian", "Isabella", "Matias", "Camila", "Nicolas"}
	apellidos = []string{"Gomez", "Rodriguez", "Diaz", "Perez", "Vargas", "Castro", "Sanchez", "Rojas", "Ortiz", "Silva"}
	dominios  = []string{"example.com", "test.net", "demo.org", "mailservice.io"}

	// DNIs de amigos conocidos; 20453629 es el usuario semilla.
	friendPool = []string{"20453629", "12345678", "87654321", "11111111", "22222222", "33333333", "44444444"}
)

// RandomUser arma un usuario con nombre, correo, dni de 8 dígitos, teléfono que empieza en 9
// y, con probabilidad 1/2, entre 1 y 3 amigos distintos del pool (nunca su propio dni).
func RandomUser(r *rand.Rand) dto.CreateUserRequest {
	nombre := nombres[r.Intn(len(nombres))]
	apellido := apellidos[r.Intn(len(apellidos))]

	dni := digits(r, 8)
	phone := "9" + digits(r, 8)

	u := dto.CreateUserRequest{
		Name:    nombre + " " + apellido,
		Email:   strings.ToLower(fmt.Sprintf("%s.%s%d@%s", nombre, apellido, r.Intn(1000), dominios[r.Intn(len(dominios))])),
		Secret:  fmt.Sprintf("pass%d", 1000+r.Intn(9000)),
		DNI:     dni,
		Phone:   &phone,
		Friends: []string{},
	}

	if r.Intn(2) == 0 {
		return u
	}
	candidates := make([]string, 0, len(friendPool))
	for _, f := range friendPool {
		if f != dni {
			candidates = append(candidates, f)
		}
	}
	r.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	n := 1 + r.Intn(3)
	u.Friends = append(u.Friends, candidates[:n]...)
	return u
}

// ValidDNI indica si s tiene exactamente 8 dígitos.
func ValidDNI(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CleanFriendDNIs recorta espacios y descarta los dni mal formados, conservando el orden.
func CleanFriendDNIs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if ValidDNI(s) {
			out = append(out, s)
		}
	}
	return out
}

func digits(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + r.Intn(10))
	}
	return string(b)
}

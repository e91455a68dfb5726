package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	resp := request(t, "POST", "/api/auth/register", map[string]string{
		"name":     "New User",
		"email":    "newuser@example.com",
		"password": "password123",
	}, "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	result := decode(t, resp)
	assert.NotEmpty(t, result["token"])
	user := result["user"].(map[string]interface{})
	assert.Equal(t, "New User", user["name"])
	assert.Equal(t, "newuser@example.com", user["email"])
	assert.Equal(t, "student", user["role"])
	assert.NotContains(t, user, "password_hash")
}

func TestRegisterMissingFields(t *testing.T) {
	resp := request(t, "POST", "/api/auth/register", map[string]string{
		"email": "incomplete@example.com",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	payload := map[string]string{
		"name":     "Dup",
		"email":    "dup@example.com",
		"password": "password",
	}

	resp := request(t, "POST", "/api/auth/register", payload, "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = request(t, "POST", "/api/auth/register", payload, "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRegisterAdminRoleRejected(t *testing.T) {
	resp := request(t, "POST", "/api/auth/register", map[string]string{
		"name":     "Sneaky",
		"email":    "sneaky@example.com",
		"password": "password",
		"role":     "admin",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	request(t, "POST", "/api/auth/register", map[string]string{
		"name":     "Login User",
		"email":    "login@example.com",
		"password": "password",
	}, "")

	resp := request(t, "POST", "/api/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "password",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	assert.NotEmpty(t, result["token"])
	assert.Equal(t, "Login User", result["user"].(map[string]interface{})["name"])
}

func TestLoginWrongPassword(t *testing.T) {
	request(t, "POST", "/api/auth/register", map[string]string{
		"name":     "Wrong Pass",
		"email":    "wrongpass@example.com",
		"password": "password",
	}, "")

	resp := request(t, "POST", "/api/auth/login", map[string]string{
		"email":    "wrongpass@example.com",
		"password": "nope",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginUnknownEmail(t *testing.T) {
	resp := request(t, "POST", "/api/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "password",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMe(t *testing.T) {
	id, token := newUser(t, "instructor")

	resp := request(t, "GET", "/api/auth/me", nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	assert.Equal(t, float64(id), result["id"])
	assert.Equal(t, "instructor", result["role"])
}

func TestMeWithoutToken(t *testing.T) {
	resp := request(t, "GET", "/api/auth/me", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMeWithGarbageToken(t *testing.T) {
	resp := request(t, "GET", "/api/auth/me", nil, "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

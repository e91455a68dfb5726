package controllers_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestCreateCourse(t *testing.T) {
	_, token := newUser(t, "instructor")

	resp := request(t, "POST", "/api/courses", map[string]interface{}{
		"title":       "Algebra I",
		"description": "Linear equations",
		"category":    "Math",
		"price":       499.0,
	}, token)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	result := decode(t, resp)
	assert.Equal(t, "Algebra I", result["title"])
	assert.Equal(t, "Math", result["category"])
	assert.Equal(t, 499.0, result["price"])
	assert.Equal(t, 0.0, result["enrollment_count"])
}

func TestCreateCourseAsStudentForbidden(t *testing.T) {
	_, token := newUser(t, "student")

	resp := request(t, "POST", "/api/courses", map[string]interface{}{
		"title":    "Nope",
		"category": "Math",
	}, token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCreateCourseValidation(t *testing.T) {
	_, token := newUser(t, "instructor")

	resp := request(t, "POST", "/api/courses", map[string]interface{}{
		"title": "Missing category",
	}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = request(t, "POST", "/api/courses", map[string]interface{}{
		"title":    "Negative price",
		"category": "Math",
		"price":    -1.0,
	}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListCourses(t *testing.T) {
	_, token := newUser(t, "instructor")
	courseID := newCourse(t, token, "Listed Course")

	resp := request(t, "GET", "/api/courses", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	found := false
	for _, entry := range decodeList(t, resp) {
		if uint(entry["id"].(float64)) == courseID {
			found = true
			assert.Equal(t, "Listed Course", entry["title"])
		}
	}
	assert.True(t, found)
}

func TestGetCourseDetails(t *testing.T) {
	_, token := newUser(t, "instructor")
	courseID := newCourse(t, token, "Detailed Course")

	resp := request(t, "GET", fmt.Sprintf("/api/courses/%d", courseID), nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	assert.Equal(t, "Detailed Course", result["title"])
	assert.Equal(t, 0.0, result["enrollment_count"])
}

func TestGetCourseNotFound(t *testing.T) {
	resp := request(t, "GET", "/api/courses/999999", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateCourse(t *testing.T) {
	_, token := newUser(t, "instructor")
	courseID := newCourse(t, token, "Old Title")

	resp := request(t, "PUT", fmt.Sprintf("/api/courses/%d", courseID), map[string]interface{}{
		"title": "New Title",
		"price": 0.0,
	}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	assert.Equal(t, "New Title", result["title"])
	assert.Equal(t, 0.0, result["price"])
}

func TestUpdateCourseByNonOwnerForbidden(t *testing.T) {
	_, ownerToken := newUser(t, "instructor")
	_, otherToken := newUser(t, "instructor")
	courseID := newCourse(t, ownerToken, "Owned Course")

	resp := request(t, "PUT", fmt.Sprintf("/api/courses/%d", courseID), map[string]interface{}{
		"title": "Hijacked",
	}, otherToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUpdateCourseByAdmin(t *testing.T) {
	_, ownerToken := newUser(t, "instructor")
	_, adminToken := newUser(t, "admin")
	courseID := newCourse(t, ownerToken, "Admin Target")

	resp := request(t, "PUT", fmt.Sprintf("/api/courses/%d", courseID), map[string]interface{}{
		"description": "Admin edit",
	}, adminToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeleteCourse(t *testing.T) {
	_, token := newUser(t, "instructor")
	courseID := newCourse(t, token, "Doomed Course")

	resp := request(t, "DELETE", fmt.Sprintf("/api/courses/%d", courseID), nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Gone from detail
	resp = request(t, "GET", fmt.Sprintf("/api/courses/%d", courseID), nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Gone from the owner's listing
	resp = request(t, "GET", "/api/courses/my-created-courses", nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	for _, entry := range decodeList(t, resp) {
		assert.NotEqual(t, courseID, uint(entry["id"].(float64)))
	}
}

func TestDeleteCourseByStudentForbidden(t *testing.T) {
	_, ownerToken := newUser(t, "instructor")
	_, studentToken := newUser(t, "student")
	courseID := newCourse(t, ownerToken, "Protected Course")

	resp := request(t, "DELETE", fmt.Sprintf("/api/courses/%d", courseID), nil, studentToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestMyCreatedCourses(t *testing.T) {
	_, token := newUser(t, "instructor")
	courseID := newCourse(t, token, "Mine")
	newCourse(t, token, "Mine Too")

	resp := request(t, "GET", "/api/courses/my-created-courses", nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	list := decodeList(t, resp)
	assert.Len(t, list, 2)

	ids := []uint{}
	for _, entry := range list {
		ids = append(ids, uint(entry["id"].(float64)))
	}
	assert.Contains(t, ids, courseID)
}

func TestMyCreatedCoursesAsStudentForbidden(t *testing.T) {
	_, token := newUser(t, "student")

	resp := request(t, "GET", "/api/courses/my-created-courses", nil, token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAddLesson(t *testing.T) {
	_, token := newUser(t, "instructor")
	courseID := newCourse(t, token, "Lesson Host")

	resp := request(t, "POST", fmt.Sprintf("/api/courses/%d/lessons", courseID), map[string]interface{}{
		"title":    "Intro",
		"type":     "video",
		"content":  "https://cdn.example.com/intro.mp4",
		"duration": 300,
		"is_free":  true,
	}, token)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// The response is the updated course with its lesson sequence
	result := decode(t, resp)
	assert.Equal(t, float64(courseID), result["id"])
	assert.Equal(t, "Lesson Host", result["title"])
	lessons := result["lessons"].([]interface{})
	assert.Len(t, lessons, 1)
	lesson := lessons[0].(map[string]interface{})
	assert.Equal(t, "Intro", lesson["title"])
	assert.Equal(t, 1.0, lesson["order"])

	// Appends keep sequence order
	resp = request(t, "POST", fmt.Sprintf("/api/courses/%d/lessons", courseID), map[string]interface{}{
		"title": "Part Two",
		"type":  "text",
	}, token)
	result = decode(t, resp)
	lessons = result["lessons"].([]interface{})
	assert.Len(t, lessons, 2)
	assert.Equal(t, 2.0, lessons[1].(map[string]interface{})["order"])
}

func TestAddLessonInvalidType(t *testing.T) {
	_, token := newUser(t, "instructor")
	courseID := newCourse(t, token, "Typed Lessons")

	resp := request(t, "POST", fmt.Sprintf("/api/courses/%d/lessons", courseID), map[string]interface{}{
		"title": "Bad",
		"type":  "hologram",
	}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAddLessonByNonOwnerForbidden(t *testing.T) {
	_, ownerToken := newUser(t, "instructor")
	_, otherToken := newUser(t, "instructor")
	courseID := newCourse(t, ownerToken, "Locked Lessons")

	resp := request(t, "POST", fmt.Sprintf("/api/courses/%d/lessons", courseID), map[string]interface{}{
		"title": "Intruder",
		"type":  "text",
	}, otherToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAddAssignment(t *testing.T) {
	_, token := newUser(t, "instructor")
	courseID := newCourse(t, token, "Assignment Host")

	resp := request(t, "POST", fmt.Sprintf("/api/courses/%d/assignments", courseID), map[string]interface{}{
		"title":       "Homework 1",
		"description": "Solve all exercises",
		"due_date":    "2026-09-15",
	}, token)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// The response is the updated course with its assignment sequence
	result := decode(t, resp)
	assert.Equal(t, float64(courseID), result["id"])
	assignments := result["assignments"].([]interface{})
	assert.Len(t, assignments, 1)
	assert.Equal(t, "Homework 1", assignments[0].(map[string]interface{})["Title"])
}

func TestLessonContentGating(t *testing.T) {
	_, ownerToken := newUser(t, "instructor")
	courseID := newCourse(t, ownerToken, "Gated Course")

	request(t, "POST", fmt.Sprintf("/api/courses/%d/lessons", courseID), map[string]interface{}{
		"title":   "Free Preview",
		"type":    "text",
		"content": "free body",
		"is_free": true,
	}, ownerToken)
	request(t, "POST", fmt.Sprintf("/api/courses/%d/lessons", courseID), map[string]interface{}{
		"title":   "Paid Content",
		"type":    "text",
		"content": "paid body",
	}, ownerToken)

	lessonContents := func(token string) map[string]string {
		resp := request(t, "GET", fmt.Sprintf("/api/courses/%d", courseID), nil, token)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		contents := map[string]string{}
		for _, l := range decode(t, resp)["lessons"].([]interface{}) {
			lesson := l.(map[string]interface{})
			contents[lesson["title"].(string)] = lesson["content"].(string)
		}
		return contents
	}

	// Anonymous viewer sees only the free lesson's content
	contents := lessonContents("")
	assert.Equal(t, "free body", contents["Free Preview"])
	assert.Equal(t, "", contents["Paid Content"])

	// Non-enrolled student likewise
	_, studentToken := newUser(t, "student")
	contents = lessonContents(studentToken)
	assert.Equal(t, "", contents["Paid Content"])

	// Enrolled student sees everything
	request(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", courseID), nil, studentToken)
	contents = lessonContents(studentToken)
	assert.Equal(t, "paid body", contents["Paid Content"])

	// The owner always sees everything
	contents = lessonContents(ownerToken)
	assert.Equal(t, "paid body", contents["Paid Content"])
}

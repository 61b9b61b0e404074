package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/hoa-backoffice-go/models"
	"github.com/phillip/hoa-backoffice-go/store"
)

// ---------------- CREATE ----------------
func CreateMember(s *store.MongoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			AccountNumber string  `json:"account_number" binding:"required"`
			Surname       string  `json:"surname" binding:"required"`
			FirstName     string  `json:"first_name" binding:"required"`
			MiddleName    string  `json:"middle_name"`
			AuthUID       string  `json:"auth_uid"`
			Status        string  `json:"status"`
			DefaultDues   float64 `json:"default_dues"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		status := input.Status
		if status == "" {
			status = models.MemberStatusNew
		}
		if input.DefaultDues < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "default_dues must not be negative"})
			return
		}

		now := time.Now()
		member := &models.Member{
			AccountNumber: input.AccountNumber,
			Surname:       input.Surname,
			FirstName:     input.FirstName,
			MiddleName:    input.MiddleName,
			AuthUID:       input.AuthUID,
			Status:        status,
			DefaultDues:   input.DefaultDues,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.InsertMember(c.Request.Context(), member); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create member"})
			return
		}
		c.JSON(http.StatusCreated, member)
	}
}

// ---------------- LIST ----------------
func ListMembers(s *store.MongoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		includeDeleted := c.Query("include_deleted") == "true"
		members, err := s.ListMembers(c.Request.Context(), includeDeleted)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch members"})
			return
		}
		if members == nil {
			members = []models.Member{}
		}
		c.JSON(http.StatusOK, members)
	}
}

// ---------------- GET ----------------
func GetMember(s *store.MongoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
			return
		}

		member, err := s.GetMember(c.Request.Context(), oid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch member"})
			return
		}
		if member == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		c.JSON(http.StatusOK, member)
	}
}

// ---------------- UPDATE ----------------
func UpdateMember(s *store.MongoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
			return
		}

		var input struct {
			Surname     string   `json:"surname"`
			FirstName   string   `json:"first_name"`
			MiddleName  *string  `json:"middle_name"`
			Status      string   `json:"status"`
			DefaultDues *float64 `json:"default_dues"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{}
		if input.Surname != "" {
			update["surname"] = input.Surname
		}
		if input.FirstName != "" {
			update["first_name"] = input.FirstName
		}
		if input.MiddleName != nil {
			update["middle_name"] = *input.MiddleName
		}
		if input.Status != "" {
			switch input.Status {
			case models.MemberStatusActive, models.MemberStatusInactive, models.MemberStatusNew, models.MemberStatusDeleted:
				update["status"] = input.Status
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
		}
		if input.DefaultDues != nil {
			if *input.DefaultDues < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "default_dues must not be negative"})
				return
			}
			update["default_dues"] = *input.DefaultDues
		}
		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		if err := s.UpdateMemberFields(c.Request.Context(), oid, update); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "member updated", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
func DeleteMember(s *store.MongoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
			return
		}

		// soft delete; ledger rows keep their member names
		if err := s.SoftDeleteMember(c.Request.Context(), oid); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "member deleted", "id": oid.Hex()})
	}
}

package repos

import (
	"github.com/ventureforge/forge/internal/db/models"
)

func (s *DBRepositoryTestSuite) TestCreateUserRequiresEmail() {
	err := s.userRepo.Create(s.ctx, &models.User{Name: "nameless"})
	s.Require().Error(err)
	s.Contains(err.Error(), "email")
}

func (s *DBRepositoryTestSuite) TestCreateUserRejectsDuplicateEmail() {
	user := s.createTestUser()

	err := s.userRepo.Create(s.ctx, &models.User{
		Email:          user.Email,
		HashedPassword: "$2a$10$another",
	})
	s.Require().Error(err)
}

func (s *DBRepositoryTestSuite) TestGetUserByEmail() {
	user := s.createTestUser()

	found, err := s.userRepo.GetByEmail(s.ctx, user.Email)
	s.Require().NoError(err)
	s.Equal(user.ID, found.ID)

	_, err = s.userRepo.GetByEmail(s.ctx, "missing@example.com")
	s.Require().Error(err)
	s.Contains(err.Error(), "user not found")
}

func (s *DBRepositoryTestSuite) TestGetUserByID() {
	user := s.createTestUser()

	found, err := s.userRepo.GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user.Email, found.Email)
}

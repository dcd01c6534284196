package renderer

// Blinn-Phong terrain shading. Normals and the light direction are moved
// into view space in the vertex stage; the fragment stage combines the
// ambient, diffuse and specular material terms.

const terrainVertexShader = `
#version 410 core

layout (location = 0) in vec3 position;
layout (location = 1) in vec3 normal;
layout (location = 2) in vec2 tex_uv;

uniform mat4 model_matrix;
uniform mat4 view_matrix;
uniform mat4 perspective_matrix;
uniform vec3 u_light;

out vec3 v_normal;
out vec3 v_light;
out vec3 v_position;
out vec2 v_uv;

void main() {
	mat4 model_view_matrix = view_matrix * model_matrix;
	v_normal = transpose(inverse(mat3(model_view_matrix))) * normal;
	v_light = transpose(inverse(mat3(view_matrix))) * u_light;
	v_position = vec3(perspective_matrix * model_view_matrix * vec4(position, 1.0));
	v_uv = tex_uv;
	gl_Position = perspective_matrix * model_view_matrix * vec4(position, 1.0);
}
`

const terrainFragmentShader = `
#version 410 core

uniform vec3 u_mat_specular;
uniform vec3 u_mat_diffuse;
uniform vec3 u_mat_ambient;

in vec3 v_normal;
in vec3 v_light;
in vec3 v_position;
in vec2 v_uv;

out vec4 frag_color;

void main() {
	float diffuse = max(dot(normalize(v_normal), normalize(v_light)), 0.0);

	vec3 camera_dir = normalize(-v_position);
	vec3 half_direction = normalize(normalize(v_light) + camera_dir);
	float specular = pow(max(dot(half_direction, normalize(v_normal)), 0.0), 64.0);

	frag_color = vec4(u_mat_ambient +
			diffuse * u_mat_diffuse +
			specular * u_mat_specular,
			1.0);
}
`
